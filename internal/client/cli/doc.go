// Package cli is the interactive CampusWall terminal client: a small REPL
// over the gRPC client in package client.
package cli

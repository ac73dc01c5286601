// Package client is the CLI side of the CampusWall gRPC API.
//
// GRPCClient keeps the session token returned by Login in memory and attaches
// it to every call through a unary interceptor. Server errors arrive as gRPC
// statuses whose message starts with a stable code; they are mapped back to
// the sentinel errors of package common, so callers match them with
// errors.Is. Transport failures map to ErrUnavailable.
//
// A GRPCClient is safe for concurrent use.
package client

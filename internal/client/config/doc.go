// Package config loads runtime configuration for the CampusWall CLI.
//
// Values come from built-in defaults, then an optional JSON file selected
// with -c or -config, then the -a, -i and -t flags. Later sources win.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "5s",
//	  "request_timeout": "10s"
//	}
package config

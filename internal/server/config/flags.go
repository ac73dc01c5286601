package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-x string   storage driver: pgx or sqlite
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-w int      bcrypt work factor
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l int      presigned upload URL validity, minutes
//	-r float    Register/Login requests per second per client (0 disables)
//	-k int      Register/Login burst size
//	-m string   Prometheus metrics address (empty disables)
//
// Duration flags are given in whole minutes. Only the flags above are read
// from args; everything else is left to other parsers.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-x", "-d", "-s", "-t", "-w", "-u", "-p", "-b", "-g", "-e", "-l", "-r", "-k", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "x", config.StorageDriver, "storage driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt work factor")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	presignValidity := fs.Int("l", int(config.PresignValidityDuration.Minutes()), "presigned upload URL validity (in minutes)")

	fs.Float64Var(&config.AuthRateLimit, "r", config.AuthRateLimit, "register/login requests per second per client")
	fs.IntVar(&config.AuthRateBurst, "k", config.AuthRateBurst, "register/login burst size")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.PresignValidityDuration = time.Duration(*presignValidity) * time.Minute
}

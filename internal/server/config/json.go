package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/campuswall/internal/flagx"
	"github.com/dmitrijs2005/campuswall/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the server config, shared by the JSON
// and YAML loaders. Durations accept either strings such as "1h" or integer
// nanoseconds. Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	StorageDriver               string         `json:"storage_driver" yaml:"storage_driver"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PresignValidityDuration     timex.Duration `json:"presign_validity_duration" yaml:"presign_validity_duration"`
	AuthRateLimit               float64        `json:"auth_rate_limit" yaml:"auth_rate_limit"`
	AuthRateBurst               int            `json:"auth_rate_burst" yaml:"auth_rate_burst"`
	MetricsAddr                 string         `json:"metrics_addr" yaml:"metrics_addr"`
}

// parseJson overlays values from the config file named by -c/-config in args.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Without the flag nothing is loaded. An unreadable or malformed file
// panics, the same way a bad flag does.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := unmarshalConfig(path, file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.MetricsAddr, c.MetricsAddr)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PresignValidityDuration.Duration > 0 {
		config.PresignValidityDuration = c.PresignValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.AuthRateLimit > 0 {
		config.AuthRateLimit = c.AuthRateLimit
	}
	if c.AuthRateBurst > 0 {
		config.AuthRateBurst = c.AuthRateBurst
	}
}

func unmarshalConfig(path string, data []byte, c *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

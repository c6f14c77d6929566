package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fakemail/internal/flagx"
	"github.com/dmitrijs2005/fakemail/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both strings such as "720h" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	StorageDriver         string         `json:"storage_driver"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	Domain                string         `json:"domain"`
	AdminIDs              []int64        `json:"admin_ids"`
	FreeLimit             int            `json:"free_limit"`
	PremiumLimit          int            `json:"premium_limit"`
	PremiumDuration       timex.Duration `json:"premium_duration"`
	EnforcePremiumExpiry  bool           `json:"enforce_premium_expiry"`
	MinCodeLength         int            `json:"min_code_length"`
	AllocationAttempts    int            `json:"allocation_attempts"`
	LogLevel              string         `json:"log_level"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrGRPC:      c.EndpointAddrGRPC,
		StorageDriver:         c.StorageDriver,
		DatabaseDSN:           c.DatabaseDSN,
		SecretKey:             c.SecretKey,
		TokenValidityDuration: timex.Duration{Duration: c.TokenValidityDuration},
		Domain:                c.Domain,
		AdminIDs:              c.AdminIDs,
		FreeLimit:             c.FreeLimit,
		PremiumLimit:          c.PremiumLimit,
		PremiumDuration:       timex.Duration{Duration: c.PremiumDuration},
		EnforcePremiumExpiry:  c.EnforcePremiumExpiry,
		MinCodeLength:         c.MinCodeLength,
		AllocationAttempts:    c.AllocationAttempts,
		LogLevel:              c.LogLevel,
		S3AccessKey:           c.S3AccessKey,
		S3SecretKey:           c.S3SecretKey,
		S3Bucket:              c.S3Bucket,
		S3Region:              c.S3Region,
		S3BaseEndpoint:        c.S3BaseEndpoint,
	}
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $FAKEMAIL_CONFIG). Keys absent from the file keep their current values.
// A missing path means nothing to load; an unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	// start from the current values so that absent keys are left alone
	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.StorageDriver = c.StorageDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.Domain = c.Domain
	config.AdminIDs = c.AdminIDs
	config.FreeLimit = c.FreeLimit
	config.PremiumLimit = c.PremiumLimit
	config.PremiumDuration = c.PremiumDuration.Duration
	config.EnforcePremiumExpiry = c.EnforcePremiumExpiry
	config.MinCodeLength = c.MinCodeLength
	config.AllocationAttempts = c.AllocationAttempts
	config.LogLevel = c.LogLevel
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}

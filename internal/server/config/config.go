// Package config handles configuration for the fakemail server and the mail
// receiver: defaults, JSON overlay, environment variables and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by repomanager.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the fakemail server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint used by chat front ends.
//   - StorageDriver / DatabaseDSN: "sqlite" (file path or DSN) or "postgres" (pgx DSN).
//   - SecretKey: HMAC secret for service tokens (HS256). Do not use the default in prod.
//   - TokenValidityDuration: lifetime of tokens minted by cmd/token.
//   - Domain: mail domain of every allocated address.
//   - AdminIDs: chat user ids allowed to create redemption codes.
//   - FreeLimit / PremiumLimit: maximum active addresses per account kind.
//   - PremiumDuration: how long a redeemed code keeps the account premium.
//   - EnforcePremiumExpiry: treat an expired premium as free when computing limits.
//   - MinCodeLength / AllocationAttempts: redemption and allocator tunables.
//   - LogLevel: debug, info, warn or error.
//   - S3*: raw message archive; archiving is off when S3Bucket is empty.
type Config struct {
	EndpointAddrGRPC      string
	StorageDriver         string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	Domain                string
	AdminIDs              []int64
	FreeLimit             int
	PremiumLimit          int
	PremiumDuration       time.Duration
	EnforcePremiumExpiry  bool
	MinCodeLength         int
	AllocationAttempts    int
	LogLevel              string
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.StorageDriver = DriverSQLite
	c.DatabaseDSN = "fakemail.db"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 365 * 24 * time.Hour
	c.Domain = "wizard.com"
	c.AdminIDs = nil
	c.FreeLimit = 100
	c.PremiumLimit = 500
	c.PremiumDuration = 30 * 24 * time.Hour
	c.EnforcePremiumExpiry = false
	c.MinCodeLength = 4
	c.AllocationAttempts = 10
	c.LogLevel = "info"
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
}

// IsAdmin reports whether userID is in the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	return slices.Contains(c.AdminIDs, userID)
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.Domain == "" {
		return fmt.Errorf("mail domain is empty")
	}
	if c.FreeLimit < 0 || c.PremiumLimit < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if c.AllocationAttempts < 1 {
		return fmt.Errorf("allocation attempts must be at least 1")
	}
	if c.MinCodeLength < 1 {
		return fmt.Errorf("minimum code length must be at least 1")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// It panics on malformed input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// parseIDs reads a comma separated list of chat user ids.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

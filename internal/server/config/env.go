package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvPrefix is prepended to every environment variable read by parseEnv.
const EnvPrefix = "FAKEMAIL_"

// parseEnv overlays values from FAKEMAIL_* environment variables. Unset
// variables leave the current value untouched; unparsable values panic.
//
//	FAKEMAIL_GRPC_ADDR, FAKEMAIL_STORAGE_DRIVER, FAKEMAIL_DATABASE_DSN,
//	FAKEMAIL_SECRET_KEY, FAKEMAIL_TOKEN_VALIDITY, FAKEMAIL_DOMAIN,
//	FAKEMAIL_ADMIN_IDS (comma separated), FAKEMAIL_FREE_LIMIT,
//	FAKEMAIL_PREMIUM_LIMIT, FAKEMAIL_PREMIUM_DURATION, FAKEMAIL_ENFORCE_EXPIRY,
//	FAKEMAIL_MIN_CODE_LENGTH, FAKEMAIL_ALLOCATION_ATTEMPTS, FAKEMAIL_LOG_LEVEL,
//	FAKEMAIL_S3_ACCESS_KEY, FAKEMAIL_S3_SECRET_KEY, FAKEMAIL_S3_BUCKET,
//	FAKEMAIL_S3_REGION, FAKEMAIL_S3_ENDPOINT
func parseEnv(config *Config) {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
			*dst = d
		}
	}

	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("STORAGE_DRIVER", &config.StorageDriver)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	dur("TOKEN_VALIDITY", &config.TokenValidityDuration)
	str("DOMAIN", &config.Domain)
	num("FREE_LIMIT", &config.FreeLimit)
	num("PREMIUM_LIMIT", &config.PremiumLimit)
	dur("PREMIUM_DURATION", &config.PremiumDuration)
	num("MIN_CODE_LENGTH", &config.MinCodeLength)
	num("ALLOCATION_ATTEMPTS", &config.AllocationAttempts)
	str("LOG_LEVEL", &config.LogLevel)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv(EnvPrefix + "ADMIN_IDS"); ok {
		ids, err := parseIDs(v)
		if err != nil {
			panic(fmt.Errorf("%sADMIN_IDS: %w", EnvPrefix, err))
		}
		config.AdminIDs = ids
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ENFORCE_EXPIRY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sENFORCE_EXPIRY: %w", EnvPrefix, err))
		}
		config.EnforcePremiumExpiry = b
	}
}

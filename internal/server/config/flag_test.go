package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-k", "postgres", "-d", "db", "-s", "secret", "-m", "mail.test",
			"-admins", "1,2", "-free", "10", "-premium", "50", "-days", "7", "-l", "debug",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expected: &Config{
			EndpointAddrGRPC: "127.0.0.1:9090",
			StorageDriver:    DriverPostgres,
			DatabaseDSN:      "db",
			SecretKey:        "secret",
			Domain:           "mail.test",
			AdminIDs:         []int64{1, 2},
			FreeLimit:        10,
			PremiumLimit:     50,
			PremiumDuration:  7 * 24 * time.Hour,
			LogLevel:         "debug",
			S3AccessKey:      "user",
			S3SecretKey:      "password",
			S3Bucket:         "bucket",
			S3Region:         "us-west-1",
			S3BaseEndpoint:   "http://endpoint",
		}},
		{name: "unrelated flags ignored", args: []string{"cmd", "-config", "x.json", "-v"},
			expected: &Config{PremiumDuration: 90 * time.Minute}},
		{name: "bad number", args: []string{"cmd", "-free", "lots"}, expectPanic: true},
		{name: "bad admin list", args: []string{"cmd", "-admins", "a,b"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{PremiumDuration: 90 * time.Minute}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

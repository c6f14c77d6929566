package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        gRPC bind address (e.g., ":50051")
//	-k string        storage driver: sqlite or postgres
//	-d string        database DSN
//	-s string        service token secret key
//	-m string        mail domain
//	-admins string   comma separated admin user ids
//	-free int        active address limit for free users
//	-premium int     active address limit for premium users
//	-days int        premium duration granted by a code, in days
//	-l string        log level
//	-u string        S3 access key
//	-p string        S3 secret key
//	-b string        S3 bucket (empty disables archiving)
//	-g string        S3 region
//	-e string        S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only these flags are parsed; everything else on the command line is ignored
// via flagx.FilterArgs, so -c/-config does not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-k", "-d", "-s", "-m", "-admins", "-free", "-premium", "-days", "-l", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "k", config.StorageDriver, "storage driver (sqlite, postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Domain, "m", config.Domain, "mail domain")

	admins := fs.String("admins", joinIDs(config.AdminIDs), "comma separated admin user ids")

	fs.IntVar(&config.FreeLimit, "free", config.FreeLimit, "active address limit for free users")
	fs.IntVar(&config.PremiumLimit, "premium", config.PremiumLimit, "active address limit for premium users")
	premiumDays := fs.Int("days", int(config.PremiumDuration/(24*time.Hour)), "premium duration (in days)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	ids, err := parseIDs(*admins)
	if err != nil {
		panic(err)
	}
	config.AdminIDs = ids

	// only override when given, so sub-day durations from JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "days" {
			config.PremiumDuration = time.Duration(*premiumDays) * 24 * time.Hour
		}
	})
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Command mailreceiver is an MTA pipe target. It reads one message from
// stdin and delivers it to the fakemail inbox, either directly through the
// configured database or through a remote core over gRPC.
//
// Postfix master.cf example:
//
//	fakemail unix - n n - - pipe
//	  flags=Rq user=fakemail argv=/usr/local/bin/mailreceiver -r ${recipient}
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/flagx"
	"github.com/dmitrijs2005/fakemail/internal/ingest"
	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/archive"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	gs "github.com/dmitrijs2005/fakemail/internal/server/grpc"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fakemail/internal/server/services"
)

// sysexits(3) codes understood by MTAs.
const (
	exOK       = 0
	exDataErr  = 65
	exNoUser   = 67
	exSoftware = 70
	exTempFail = 75
)

type options struct {
	recipient string
	remote    string
	token     string
	timeout   time.Duration
}

func parseOptions(args []string) options {
	var o options
	fs := flag.NewFlagSet("mailreceiver", flag.ContinueOnError)
	fs.StringVar(&o.recipient, "r", "", "envelope recipient")
	fs.StringVar(&o.remote, "remote", "", "gRPC address of a remote core; empty delivers to the local database")
	fs.StringVar(&o.token, "t", os.Getenv(config.EnvPrefix+"TOKEN"), "service token for the remote core")
	fs.DurationVar(&o.timeout, "timeout", time.Minute, "delivery timeout")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-r", "-remote", "-t", "-timeout"}))
	return o
}

// exitCode tells the MTA whether to bounce or retry.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exOK
	case errors.Is(err, ingest.ErrNotManaged):
		return exNoUser
	case errors.Is(err, ingest.ErrMessageTooLarge), errors.Is(err, services.ErrEmptyRecipient):
		return exDataErr
	case errors.Is(err, common.ErrStorageUnavailable), errors.Is(err, gs.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return exTempFail
	case errors.Is(err, common.ErrorInternal), errors.Is(err, common.ErrorUnauthorized):
		return exSoftware
	default:
		// parse failures and anything unexpected: let the MTA retry rather than lose mail
		return exTempFail
	}
}

func run(ctx context.Context, cfg *config.Config, o options, stdin io.Reader, logger logging.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	store, err := archive.New(ctx, cfg)
	if err != nil {
		return err
	}

	var recorder ingest.Recorder
	if o.remote != "" {
		c, err := gs.NewClient(o.remote, o.token)
		if err != nil {
			return fmt.Errorf("%w: %v", gs.ErrUnavailable, err)
		}
		defer c.Close()
		recorder = c
	} else {
		db, rm, err := repomanager.Open(ctx, cfg.StorageDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return err
		}
		recorder = services.NewInboxService(db, rm)
	}

	_, err = ingest.New(cfg.Domain, store, recorder, logger).DeliverTo(ctx, o.recipient, stdin)
	return err
}

func main() {
	cfg := config.LoadConfig()
	// stdout may belong to the MTA, keep logs on stderr
	logger := logging.New(os.Stderr, cfg.LogLevel)
	o := parseOptions(os.Args[1:])

	ctx := context.Background()
	err := run(ctx, cfg, o, os.Stdin, logger)
	if err != nil {
		logger.Error(ctx, "delivery failed", "recipient", o.recipient, "error", err.Error())
	}
	os.Exit(exitCode(err))
}

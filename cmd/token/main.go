// Command token prints a signed service token for a chat front end. The
// secret is read from the terminal without echo, or from stdin when it is
// not a terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/server/auth"
	"golang.org/x/term"
)

// seams for tests
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func readSecret(stdin *os.File, w io.Writer) ([]byte, error) {
	fd := int(stdin.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return []byte(strings.TrimSpace(line)), nil
	}

	if _, err := fmt.Fprint(w, "Secret key: "); err != nil {
		return nil, err
	}
	secret, err := readPassword(fd)
	fmt.Fprintln(w)
	return secret, err
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("n", "", "front end name, stored as the token subject")
	validity := fs.Duration("v", 365*24*time.Hour, "token validity; 0 means no expiry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-n is required")
	}

	secret, err := readSecret(stdin, stderr)
	if err != nil {
		return err
	}
	if len(secret) == 0 {
		return errors.New("empty secret")
	}

	token, err := auth.GenerateToken(*name, secret, *validity)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

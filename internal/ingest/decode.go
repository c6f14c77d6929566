package ingest

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
)

// charset returns a decoder for the named charset. ISO-2022-JP is looked up
// directly since htmlindex maps only its WHATWG label.
func charset(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "us-ascii", "utf-8", "utf8":
		return nil, nil
	case "iso-2022-jp", "csiso2022jp":
		return japanese.ISO2022JP.NewDecoder(), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	return enc.NewDecoder(), nil
}

func charsetReader(name string, input io.Reader) (io.Reader, error) {
	dec, err := charset(name)
	if err != nil {
		return nil, err
	}
	if dec == nil {
		return input, nil
	}
	return dec.Reader(input), nil
}

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// DecodeHeader decodes RFC 2047 encoded words. Undecodable input is
// returned as is.
func DecodeHeader(header string) string {
	decoded, err := wordDecoder.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

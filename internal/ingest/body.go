package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
)

// MaxBodyLength caps the stored text body; the raw message goes to the archive.
const MaxBodyLength = 64 << 10

// part is the subset of a MIME entity needed to pick a body.
type part struct {
	header textproto.MIMEHeader
	body   io.Reader
}

// textBody returns the best text of a message: the first text/plain part,
// else the first text/html part, decoded to UTF-8.
func textBody(p part) (string, error) {
	plain, html, err := walk(p, 0)
	if err != nil {
		return "", err
	}
	text := plain
	if text == "" {
		text = html
	}
	if len(text) > MaxBodyLength {
		text = strings.ToValidUTF8(text[:MaxBodyLength], "")
	}
	return text, nil
}

func walk(p part, depth int) (plain, html string, err error) {
	if depth > 8 {
		return "", "", errors.New("mime nesting too deep")
	}

	ct := p.header.Get("Content-Type")
	if ct == "" {
		ct = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		// broken header, treat as plain text like most clients
		mediaType, params = "text/plain", nil
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := multipart.NewReader(p.body, params["boundary"])
		for {
			next, err := mr.NextRawPart()
			if errors.Is(err, io.EOF) {
				return plain, html, nil
			}
			if err != nil {
				return plain, html, err
			}
			pl, ht, err := walk(part{header: next.Header, body: next}, depth+1)
			if err != nil {
				return plain, html, err
			}
			if plain == "" {
				plain = pl
			}
			if html == "" {
				html = ht
			}
		}

	case mediaType == "text/plain", mediaType == "text/html":
		if strings.HasPrefix(strings.ToLower(p.header.Get("Content-Disposition")), "attachment") {
			return "", "", nil
		}
		text, err := decodeText(p, params["charset"])
		if err != nil {
			return "", "", err
		}
		if mediaType == "text/plain" {
			return text, "", nil
		}
		return "", text, nil
	}

	return "", "", nil
}

func decodeText(p part, cs string) (string, error) {
	var r io.Reader = p.body
	switch strings.ToLower(strings.TrimSpace(p.header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	// unknown charsets are stored undecoded rather than dropping the mail
	if cr, err := charsetReader(cs, r); err == nil {
		r = cr
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, MaxBodyLength+1)); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

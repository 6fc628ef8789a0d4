// Package charset transcodes between UTF-8 and whatever code page a remote
// has negotiated (typically via CHARSET, RFC 2066 - negotiation policy
// itself lives with the collaborator that owns option state, not here).
// It exists alongside the core telnet package because Message events only
// ever carry UTF-8 text: a caller dealing with a codepage-only peer needs
// something to transcode through before handing bytes to the decoder, and
// after pulling text out of it for the encoder.
package charset

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Transcoder converts between UTF-8 and a single named IANA code page.
type Transcoder struct {
	name    string
	encoder *encoding.Encoder
	decoder transform.Transformer
}

// New builds a Transcoder for codePage, an IANA-registered charset name
// ("ISO-8859-1", "US-ASCII", "UTF-8", ...). US-ASCII is special-cased to
// tolerate a remote that claims ASCII but sends UTF-8 anyway: decoding uses
// encoding.Replacement's *encoder*, not its decoder - the Replacement
// decoder collapses an entire stream to a single U+FFFD, while its encoder
// passes valid UTF-8 through untouched and only replaces invalid runs,
// which is what this compatibility case actually needs.
func New(codePage string) (*Transcoder, error) {
	if strings.EqualFold(codePage, "UTF-8") {
		return &Transcoder{name: "UTF-8"}, nil
	}

	enc, err := ianaindex.IANA.Encoding(codePage)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, errors.New("charset: unsupported code page " + codePage)
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return nil, err
	}

	var decoder transform.Transformer = enc.NewDecoder()
	if strings.EqualFold(codePage, "US-ASCII") {
		decoder = encoding.Replacement.NewEncoder()
	}

	return &Transcoder{
		name:    name,
		encoder: enc.NewEncoder(),
		decoder: decoder,
	}, nil
}

// Name returns the canonical IANA name this Transcoder was built for.
func (t *Transcoder) Name() string {
	return t.name
}

// Encode converts UTF-8 text to this Transcoder's code page, ready to hand
// to an Encoder's Message event as raw bytes. UTF-8 itself is the identity.
func (t *Transcoder) Encode(text string) ([]byte, error) {
	if t.encoder == nil {
		return []byte(text), nil
	}
	return t.encoder.Bytes([]byte(text))
}

// Decode converts raw code-page bytes (e.g. the bytes a Message's line
// accumulated before the decoder's own UTF-8-lossy pass) to UTF-8.
func (t *Transcoder) Decode(raw []byte) (string, error) {
	if t.decoder == nil {
		return string(raw), nil
	}
	b, _, err := transform.Bytes(t.decoder, raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package patch

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Codec converts between a game file's on-disk encoding and UTF-8.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for UTF-8 passthrough
}

// UTF8 is the passthrough codec.
var UTF8 = Codec{name: "utf-8"}

var codecs = map[string]encoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"iso-8859-1":   charmap.ISO8859_1,
}

// CodecFor returns the codec registered under name. An empty name or any
// spelling of UTF-8 selects the passthrough codec.
func CodecFor(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return UTF8, nil
	}
	enc, ok := codecs[key]
	if !ok {
		return Codec{}, fmt.Errorf("unsupported encoding %q", name)
	}
	return Codec{name: key, enc: enc}, nil
}

// Name returns the codec name.
func (c Codec) Name() string {
	if c.name == "" {
		return "utf-8"
	}
	return c.name
}

// Decode converts raw file bytes into UTF-8 text.
func (c Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", c.Name(), err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text back into the file encoding.
func (c Codec) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.Name(), err)
	}
	return out, nil
}

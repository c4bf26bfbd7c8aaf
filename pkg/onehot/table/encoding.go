package table

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/cognicore/onehot/pkg/onehot/internalerr"
)

// Common encoding names.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Latin-1 is resolved by hand: WHATWG-style indexes map "latin1" to
// windows-1252, which decodes 0x80-0x9F differently.
var knownEncodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// LookupEncoding resolves an encoding name; "" means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return unicode.UTF8, nil
	}
	if enc, ok := knownEncodings[key]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", internalerr.ErrDecode, name)
	}
	return enc, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts raw file bytes to UTF-8. UTF-8 input is validated rather
// than repaired, so a wrongly declared encoding fails loudly.
func decode(data []byte, encName string) ([]byte, error) {
	enc, err := LookupEncoding(encName)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: invalid utf-8 (try latin1 or cp1252)", internalerr.ErrDecode)
		}
		return data, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrDecode, err)
	}
	return out, nil
}

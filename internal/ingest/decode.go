package ingest

// decode.go turns raw file bytes into UTF-8 text.
//
// Instrument exports are usually UTF-8, sometimes with a BOM, and now and
// then Windows-1252 (degree signs, micro signs in unit rows). Valid UTF-8
// passes through untouched; anything else is sniffed with chardet and
// transcoded when it is a single-byte Western charset. Whatever is still
// invalid is sanitized: each run of invalid bytes becomes a single '?'.

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sniffLen bounds how much of a file the charset detector looks at.
const sniffLen = 4096

// Encoding names the charset a payload was decoded from.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingLatin1      Encoding = "iso-8859-1"
	EncodingSanitized   Encoding = "utf-8 (sanitized)"
)

// Decode returns data as UTF-8 text together with the charset it came from.
func Decode(data []byte) (string, Encoding) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), EncodingUTF8
	}

	if dec, enc := detectDecoder(data); dec != nil {
		if out, err := dec.Bytes(data); err == nil {
			return string(out), enc
		}
	}

	return sanitize(data), EncodingSanitized
}

// sanitize collapses every run of invalid UTF-8 bytes into one '?'.
func sanitize(data []byte) string {
	return strings.ToValidUTF8(string(data), "?")
}

// detectDecoder maps the detector's best guess onto a charmap decoder.
func detectDecoder(data []byte) (*encoding.Decoder, Encoding) {
	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		return nil, ""
	}

	switch strings.ToLower(res.Charset) {
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), EncodingWindows1252
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), EncodingLatin1
	default:
		return nil, ""
	}
}

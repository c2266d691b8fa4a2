// Package encoding converts the EUC-KR strings found in model files and
// archive tables.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRToUTF8 decodes EUC-KR bytes. Undecodable input is returned as is.
func EUCKRToUTF8(data []byte) string {
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// UTF8ToEUCKR encodes s as EUC-KR. Unencodable input is returned as is.
func UTF8ToEUCKR(s string) []byte {
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

// FixedString decodes a NUL-padded EUC-KR field.
func FixedString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return EUCKRToUTF8(field)
}

// PutFixedString encodes s into a NUL-padded field of the given size,
// truncating if needed.
func PutFixedString(s string, size int) []byte {
	field := make([]byte, size)
	copy(field, UTF8ToEUCKR(s))
	return field
}

// NormalizePath lowercases a path and turns backslashes into slashes, the
// form archive lookups use.
func NormalizePath(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
}

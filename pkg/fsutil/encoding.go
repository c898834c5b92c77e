package fsutil

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the byte encoding of a document on disk.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

var encodingNames = [...]string{"utf-8", "utf-8-bom", "utf-16le", "utf-16be"}

func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding inspects the byte-order mark of content. Content without a
// mark is UTF-8.
func DetectEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return nil
	}
}

// Decode converts content in enc to UTF-8 text without a byte-order mark.
func Decode(content []byte, enc Encoding) (string, error) {
	codec := enc.codec()
	if codec == nil {
		return string(content), nil
	}

	out, err := codec.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc, err)
	}

	return string(out), nil
}

// Encode converts text back to enc, restoring its byte-order mark.
func Encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingUTF16LE:
		return encodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), text, enc)
	case EncodingUTF16BE:
		return encodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), text, enc)
	default:
		return encodeWith(enc.codec(), text, enc)
	}
}

func encodeWith(codec encoding.Encoding, text string, enc Encoding) ([]byte, error) {
	out, err := codec.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}

	return out, nil
}

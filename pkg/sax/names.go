package sax

import "unicode"

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isQuote(c rune) bool {
	return c == '"' || c == '\''
}

func isNameStart(c rune) bool {
	switch {
	case c == ':' || c == '_':
		return true
	case c < 0x80:
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	case c == 0xD7 || c == 0xF7:
		return false
	default:
		return unicode.IsLetter(c) || (c >= 0x2070 && c <= 0x218F) || (c >= 0xF900 && c <= 0xFDCF)
	}
}

func isNameChar(c rune) bool {
	switch {
	case isNameStart(c):
		return true
	case c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return true
	case c == 0xB7 || (c >= 0x0300 && c <= 0x036F) || (c >= 0x203F && c <= 0x2040):
		return true
	default:
		return c >= 0x80 && (unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c))
	}
}

func isEntityStart(c rune) bool {
	return c == '#' || isNameStart(c)
}

func isEntityChar(c rune) bool {
	return c == '#' || isNameChar(c)
}

// IsName reports whether s is a valid XML name.
func IsName(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if i == 0 && !isNameStart(c) {
			return false
		}
		if !isNameChar(c) {
			return false
		}
	}

	return true
}

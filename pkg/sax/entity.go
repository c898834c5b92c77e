package sax

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var predefinedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// resolveEntity expands the reference between '&' and ';'. Unknown names and
// bad character references come back unexpanded with ok == false.
func resolveEntity(name string) (string, bool) {
	if v, ok := predefinedEntities[name]; ok {
		return v, true
	}

	lower := strings.ToLower(name)
	if v, ok := predefinedEntities[lower]; ok {
		return v, true
	}

	raw := "&" + name + ";"

	if !strings.HasPrefix(lower, "#") {
		return raw, false
	}

	digits, base := lower[1:], 10
	if strings.HasPrefix(digits, "x") {
		digits, base = digits[1:], 16
	}

	if digits == "" {
		return raw, false
	}

	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || n == 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		return raw, false
	}

	return string(rune(n)), true
}

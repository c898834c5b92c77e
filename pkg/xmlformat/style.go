package xmlformat

import (
	"fmt"
	"strings"
)

// Style selects how elements and attributes are laid out.
type Style string

// Formatting styles.
const (
	SingleLineAttributes Style = "singleLineAttributes"
	MultiLineAttributes  Style = "multiLineAttributes"
	FileSizeOptimized    Style = "fileSizeOptimized"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = SingleLineAttributes

// Styles lists the recognised styles.
func Styles() []Style {
	return []Style{SingleLineAttributes, MultiLineAttributes, FileSizeOptimized}
}

// ParseStyle accepts the style names case-insensitively. The empty string
// selects DefaultStyle.
func ParseStyle(s string) (Style, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultStyle, nil
	}

	for _, style := range Styles() {
		if strings.EqualFold(s, string(style)) {
			return style, nil
		}
	}

	return "", fmt.Errorf("unknown formatting style %q (valid: %s, %s, %s)", s,
		SingleLineAttributes, MultiLineAttributes, FileSizeOptimized)
}

func (s Style) String() string {
	return string(s)
}

// Package langdetect decides whether a file holds an XML-family document and
// which editor language identifier it carries. Known extensions are
// answered directly; other files go through go-enry's extension table and
// a content sniff.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Editor language identifiers.
const (
	LanguageXML  = "xml"
	LanguageXAML = "xaml"
)

var xamlExtensions = map[string]bool{".xaml": true, ".axaml": true}

var xmlExtensions = map[string]bool{
	".xml": true, ".xsd": true, ".xsl": true, ".xslt": true, ".svg": true,
	".csproj": true, ".vbproj": true, ".fsproj": true, ".props": true, ".targets": true,
	".nuspec": true, ".resx": true, ".config": true, ".plist": true,
}

// Linguist names of XML-family languages.
var xmlFamily = map[string]bool{
	"XML":                   true,
	"XML Property List":     true,
	"XSLT":                  true,
	"SVG":                   true,
	"XPages":                true,
	"Ant Build System":      true,
	"Maven POM":             true,
	"Web Ontology Language": true,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LanguageID returns the editor language identifier for path, or "" when
// the file is not an XML-family document. content may be nil or a prefix of
// the file.
func LanguageID(path string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if xamlExtensions[ext] {
		return LanguageXAML
	}
	if xmlExtensions[ext] {
		return LanguageXML
	}

	if candidates := enry.GetLanguagesByExtension(filepath.Base(path), content, nil); len(candidates) > 0 {
		family := 0
		for _, lang := range candidates {
			if xmlFamily[lang] {
				family++
			}
		}

		switch {
		case family == len(candidates):
			return LanguageXML
		case family > 0 && LooksLikeXML(content):
			return LanguageXML
		default:
			return ""
		}
	}

	if LooksLikeXML(content) {
		return LanguageXML
	}

	return ""
}

// IsXML reports whether path holds an XML-family document.
func IsXML(path string, content []byte) bool {
	return LanguageID(path, content) != ""
}

// LooksLikeXML sniffs content: an XML declaration is decisive, HTML markers
// rule the content out, and any other markup is left to the classifier.
func LooksLikeXML(content []byte) bool {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(content, utf8BOM))
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}

	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return true
	}

	if isHTML(trimmed) {
		return false
	}

	lang, _ := enry.GetLanguageByClassifier(trimmed, []string{"XML", "HTML", "Markdown"})

	return lang == "XML"
}

func isHTML(trimmed []byte) bool {
	lower := bytes.ToLower(trimmed)

	return bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<head>")) ||
		bytes.Contains(lower, []byte("<body>"))
}

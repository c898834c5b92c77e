package langdetect_test

import (
	"testing"

	"github.com/yaklabco/goxaml/pkg/langdetect"
)

func TestLanguageID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{
			name:     "xaml extension",
			path:     "Views/MainWindow.xaml",
			expected: langdetect.LanguageXAML,
		},
		{
			name:     "avalonia xaml",
			path:     "App.AXAML",
			expected: langdetect.LanguageXAML,
		},
		{
			name:     "xml extension",
			path:     "pom.xml",
			content:  "<project/>",
			expected: langdetect.LanguageXML,
		},
		{
			name:     "project file",
			path:     "build/app.vcxproj",
			content:  "<Project/>",
			expected: langdetect.LanguageXML,
		},
		{
			name:     "no extension with declaration",
			path:     "manifest",
			content:  "\uFEFF  <?xml version=\"1.0\"?>\n<root/>",
			expected: langdetect.LanguageXML,
		},
		{
			name:     "no extension html",
			path:     "index",
			content:  "<!DOCTYPE html><html><body></body></html>",
			expected: "",
		},
		{
			name:     "no extension plain text",
			path:     "README",
			content:  "hello <world>",
			expected: "",
		},
		{
			name:     "go source",
			path:     "main.go",
			content:  "package main",
			expected: "",
		},
		{
			name:     "empty",
			path:     "empty",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.LanguageID(tt.path, []byte(tt.content))
			if got != tt.expected {
				t.Errorf("LanguageID(%q) = %q, want %q", tt.path, got, tt.expected)
			}
			if langdetect.IsXML(tt.path, []byte(tt.content)) != (tt.expected != "") {
				t.Errorf("IsXML(%q) disagrees with LanguageID", tt.path)
			}
		})
	}
}

func TestLooksLikeXML(t *testing.T) {
	t.Parallel()

	if !langdetect.LooksLikeXML([]byte(`<?xml version="1.0"?><a/>`)) {
		t.Error("declaration should be decisive")
	}
	if langdetect.LooksLikeXML([]byte("<html><head></head></html>")) {
		t.Error("html should be rejected")
	}
	if langdetect.LooksLikeXML([]byte("key: value")) {
		t.Error("yaml should be rejected")
	}
}

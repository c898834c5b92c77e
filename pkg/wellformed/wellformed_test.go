package wellformed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/wellformed"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"single element", "<a/>", true},
		{"nested", "<a><b>text</b><c x='1'/></a>", true},
		{"prolog and comments", "<?xml version=\"1.0\"?>\n<!-- c -->\n<a>&amp;</a>\n", true},
		{"xaml", `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation"><Grid Grid.Row="1"/></Window>`, true},
		{"cdata", "<a><![CDATA[<not a tag>]]></a>", true},
		{"unmatched close", "<a></a></b>", false},
		{"mismatched names", "<a></b>", false},
		{"bare less-than", "<a>1 < 2</a>", false},
		{"bare ampersand", "<a>fish & chips</a>", false},
		{"unclosed", "<a><b></b>", false},
		{"empty", "", true},
		{"text only", "hello", false},
		{"two roots", "<a/><b/>", false},
		{"duplicate attribute", `<a x="1" x="2"/>`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, wellformed.Check(tc.input))
		})
	}
}

func TestCheckFragment(t *testing.T) {
	t.Parallel()

	assert.True(t, wellformed.CheckFragment(`  <Label/><Button Content="x"></Button>`))
	assert.True(t, wellformed.CheckFragment("<a/>"))
	assert.False(t, wellformed.CheckFragment("<a><b></a>"))
	assert.False(t, wellformed.CheckFragment(`<a x="1" x="2"/><b/>`))
}

func TestCheck_Repeatable(t *testing.T) {
	t.Parallel()

	input := "<a><b></a>"
	assert.False(t, wellformed.Check(input))
	assert.False(t, wellformed.Check(input))
	assert.Equal(t, "<a><b></a>", input)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	errs := wellformed.Errors("<a>\n</b>")
	require.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Line)

	assert.Empty(t, wellformed.Errors("<a/>"))
}

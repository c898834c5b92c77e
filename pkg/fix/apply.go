package fix

import (
	"fmt"
	"slices"
	"strings"
)

// Prepare checks edits against a document of docLen bytes and returns them
// sorted by position.
func Prepare(edits []TextEdit, docLen int) ([]TextEdit, error) {
	for _, e := range edits {
		if e.StartOffset < 0 || e.StartOffset > e.EndOffset || e.EndOffset > docLen {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrInvalidRange, e.StartOffset, e.EndOffset, docLen)
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap,
				sorted[i-1].StartOffset, sorted[i-1].EndOffset,
				sorted[i].StartOffset, sorted[i].EndOffset)
		}
	}

	return sorted, nil
}

// Apply applies edits to text. The edits may be given in any order but must
// not overlap.
func Apply(text string, edits ...TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted, err := Prepare(edits, len(text))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(text))

	cursor := 0
	for _, e := range sorted {
		out.WriteString(text[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.WriteString(text[cursor:])

	return out.String(), nil
}

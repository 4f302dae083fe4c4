package contextdoc

import (
	"fmt"
	"strings"
)

// ID returns the default document ID for the zero-based index i: doc_001,
// doc_002, ...
func ID(i int) string {
	return fmt.Sprintf("doc_%03d", i+1)
}

// Label returns the spreadsheet-style letter label for the zero-based index
// i: A..Z, AA, AB, ...
func Label(i int) string {
	label := ""
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}
	return label
}

// Format renders docs as one labelled entry per document. Documents without
// an ID get [ID] of their position. Single-line content stays on the label
// line; multi-line content starts on the next line.
func Format(docs []Document) string {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n")
		}

		id := doc.ID
		if id == "" {
			id = ID(i)
		}

		fmt.Fprintf(&b, "Document %s (id: %s):", Label(i), id)
		content := strings.TrimSpace(doc.Content)
		if strings.Contains(content, "\n") {
			b.WriteString("\n")
		} else if content != "" {
			b.WriteString(" ")
		}
		b.WriteString(content)
	}
	return b.String()
}

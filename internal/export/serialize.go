package export

import "strings"

// Serialize renders the metadata header followed by every section, in input
// order. This is purely a formatting pass; the builder alone is responsible
// for section ordering and indentation.
func Serialize(doc Document) string {
	var b strings.Builder

	b.WriteString("<!--\n")
	writeMetaLine(&b, "title", doc.Meta.Title)
	writeMetaLine(&b, "author", doc.Meta.Author)
	writeMetaLine(&b, "email", doc.Meta.Email)
	writeMetaLine(&b, "date", doc.Meta.Date)
	writeMetaLine(&b, "version", doc.Meta.Version)
	writeMetaLine(&b, "language", doc.Meta.Language)
	writeMetaLine(&b, "narrator", doc.Meta.Narrator)
	writeMetaLine(&b, "comment", doc.Meta.Comment)
	writeMetaLine(&b, "logo", doc.Meta.Logo)
	b.WriteString("-->\n")

	for _, section := range doc.Sections {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("#", clampIndent(section.Indent)))
		b.WriteString(" ")
		b.WriteString(section.Title)
		b.WriteString("\n")
		for _, block := range section.Body {
			b.WriteString("\n")
			b.WriteString(block)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeMetaLine(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func clampIndent(indent int) int {
	if indent < 1 {
		return 1
	}
	if indent > maxIndent {
		return maxIndent
	}
	return indent
}

package export

import "strings"

// Cloze templates use a private authoring markup for blanks:
//
//	{T: [opt1, opt2]}  free-text blank, any listed option accepted
//	{C: [opt1, opt2]}  choice blank, first option is the correct one
//
// Transpile rewrites every blank into the player's bracket syntax
// ([[opt1|opt2]], with the correct choice parenthesized) while leaving all
// surrounding text untouched. Authored content cannot be assumed well-formed:
// stray braces, missing tags and unterminated blanks stay literal text, and
// the function never fails.

type clozeState int

const (
	clozeNone clozeState = iota
	clozeWantTag
	clozeWantColon
	clozeBody
)

// clozeEdit is one recognized blank: the half-open byte span it occupies in
// the template and the rewritten text that replaces it.
type clozeEdit struct {
	start, end  int
	replacement string
}

// Transpile rewrites all blanks of a cloze template. A template with no
// recognizable blanks is returned unchanged. Braces, brackets and list
// separators are ASCII, so the scan is byte-wise and Unicode inside options
// passes through untouched.
func Transpile(template string) string {
	var edits []clozeEdit

	depth := 0
	start := 0
	state := clozeNone
	choice := false

	for i := 0; i < len(template); i++ {
		c := template[i]

		if c == '}' && depth > 0 {
			depth--
			if depth == 0 {
				if state == clozeBody {
					edits = append(edits, clozeEdit{
						start:       start,
						end:         i + 1,
						replacement: rewriteBlank(template[start:i+1], choice),
					})
				}
				state = clozeNone
			}
			continue
		}

		// Tag recognition directly after an opening brace. Anything other
		// than the expected tag or colon demotes the brace to plain text;
		// a fresh `{` below may immediately start a new candidate.
		if depth == 1 {
			switch state {
			case clozeWantTag:
				switch c {
				case ' ':
				case 'T', 'C':
					choice = c == 'C'
					state = clozeWantColon
				default:
					state = clozeNone
					depth = 0
				}
			case clozeWantColon:
				switch c {
				case ' ':
				case ':':
					state = clozeBody
				default:
					state = clozeNone
					depth = 0
				}
			}
		}

		if c == '{' {
			depth++
			if depth == 1 {
				start = i
				state = clozeWantTag
			}
		}
	}

	if len(edits) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, e := range edits {
		b.WriteString(template[last:e.start])
		b.WriteString(e.replacement)
		last = e.end
	}
	b.WriteString(template[last:])
	return b.String()
}

// rewriteBlank transforms one recognized raw blank, outer braces included,
// into the target bracket syntax. The option list is not validated: a single
// option is a plain single-answer blank, and payloads such as LaTeX pass
// through untouched (a literal comma inside an option is indistinguishable
// from a separator).
func rewriteBlank(raw string, choice bool) string {
	inner := raw[1 : len(raw)-1]

	// Drop the tag and its colon; the scanner guarantees both are present.
	inner = strings.TrimLeft(inner, " ")
	inner = inner[1:]
	inner = strings.TrimLeft(inner, " ")
	inner = inner[1:]

	inner = stripUnescapedBrackets(inner)

	options := strings.Split(inner, ",")
	for i := range options {
		options[i] = strings.TrimSpace(options[i])
	}
	// The first option of a choice blank is the designated correct answer;
	// parenthesizing marks it for the player's validation.
	if choice && len(options) > 1 {
		options[0] = "(" + options[0] + ")"
	}
	return "[[" + strings.Join(options, "|") + "]]"
}

// stripUnescapedBrackets removes the list-literal brackets while keeping
// escaped \[ and \] intact.
func stripUnescapedBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '[' || c == ']') && (i == 0 || s[i-1] != '\\') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

package export

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Narrator selects the synthesized-voice persona of the target player.
type Narrator string

const (
	NarratorFemale Narrator = "female"
	NarratorMale   Narrator = "male"
)

// Options control document generation.
type Options struct {
	// AddTitlePage emits a synthetic level-1 section with course metadata.
	AddTitlePage bool
	// Language is the document locale tag, e.g. "de" or "en".
	Language string
	// Narrator is forwarded to the metadata header as part of the voice name.
	Narrator Narrator
	// ConsiderTopics includes subject/specialization lines on the title page.
	ConsiderTopics bool
	// ExportMailAddresses includes author emails in the metadata header.
	ExportMailAddresses bool
	// Date is the document date metadata. Callers set it once per export so
	// repeated serialization stays byte-identical.
	Date string
}

// DefaultOptions returns the platform defaults for an export.
func DefaultOptions() Options {
	return Options{
		AddTitlePage:        true,
		Language:            "de",
		Narrator:            NarratorFemale,
		ConsiderTopics:      true,
		ExportMailAddresses: true,
	}
}

// SelectNarrator maps the language and narrator options onto the player's
// voice name, e.g. "Deutsch Female" or "English Male". The language part is
// the language's own name for itself.
func SelectNarrator(o Options) string {
	tag, err := language.Parse(o.Language)
	if err != nil {
		tag = language.German
	}
	name := display.Self.Name(tag)
	if name == "" {
		name = o.Language
	}
	voice := cases.Title(language.English).String(string(o.Narrator))
	if voice == "" {
		voice = "Female"
	}
	return name + " " + voice
}

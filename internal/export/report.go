package export

import "fmt"

// Report accumulates the non-fatal issues of one export: missing lesson
// references, question variants that produce no output, and similar silent
// data-loss cases. The export itself never fails over these; callers decide
// whether and how to surface them.
type Report struct {
	Warnings         []string `json:"warnings"`
	MissingLessons   int      `json:"missing_lessons"`
	SkippedQuestions int      `json:"skipped_questions"`
}

// Warnf records a formatted warning. Safe on a nil receiver.
func (r *Report) Warnf(format string, args ...any) {
	if r == nil {
		return
	}
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) missingLesson(lessonID, chapter string) {
	if r == nil {
		return
	}
	r.MissingLessons++
	r.Warnf("chapter %q references lesson %s, which is not part of this export", chapter, lessonID)
}

func (r *Report) skippedQuestion(kind string) {
	if r == nil {
		return
	}
	r.SkippedQuestions++
	r.Warnf("question of type %q produces no output and was skipped", kind)
}

// HasWarnings reports whether anything was recorded.
func (r *Report) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

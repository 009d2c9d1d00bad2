package export

import (
	"strings"

	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/markdown"
)

// CompileQuestion converts one quiz question into one body block. The second
// return value is false when the variant produces no output (programming
// questions and unknown future variants); the skip is recorded on the report.
func CompileQuestion(q course.Question, rep *Report) (string, bool) {
	switch q.Type {
	case course.QuestionMultipleChoice:
		return compileMultipleChoice(q), true
	case course.QuestionExact:
		return compileExact(q), true
	case course.QuestionText:
		return compileText(q), true
	case course.QuestionCloze:
		return compileCloze(q), true
	default:
		// Programming questions have no player-side representation; they are
		// parsed into the model but never compiled.
		rep.skippedQuestion(string(q.Type))
		return "", false
	}
}

func compileMultipleChoice(q course.Question) string {
	var b strings.Builder
	for _, answer := range q.Answers {
		if answer.IsCorrect {
			b.WriteString("- [[x]] ")
		} else {
			b.WriteString("- [[ ]] ")
		}
		b.WriteString(markdown.Markdownify(answer.Content))
		b.WriteString("\n")
	}
	b.WriteString(RenderHints(q.Hints))
	return markdown.Markdownify(q.Statement + "\n\n" + b.String())
}

func compileExact(q course.Question) string {
	if len(q.AcceptedAnswers) == 0 {
		return markdown.Markdownify(q.Statement)
	}
	// Only the first accepted answer is visible in the markup; the script
	// below validates against the full list.
	visible := "- [[" + markdown.Markdownify(q.AcceptedAnswers[0]) + "]]\n"
	body := visible + RenderHints(q.Hints) + acceptedAnswerScript(q.AcceptedAnswers)
	return markdown.Markdownify(q.Statement + "\n\n" + body)
}

func compileText(q course.Question) string {
	// There is no correct answer; any non-empty input passes.
	body := "- [[Freitext]]\n" + RenderHints(q.Hints) +
		"<script>\nlet input = \"@input\".trim()\ninput != \"\"\n</script>\n"
	return markdown.Markdownify(q.Statement + "\n\n" + body)
}

func compileCloze(q course.Question) string {
	// Blanks are inline, so hints are not appended separately.
	return markdown.Markdownify(q.Statement + "\n\n" + Transpile(q.ClozeText))
}

// RenderHints concatenates one hint line per hint, in order. Hints render as
// plain text: no markup survives into a hint line.
func RenderHints(hints []string) string {
	var b strings.Builder
	for _, hint := range hints {
		b.WriteString("[[?]] ")
		b.WriteString(markdown.ToPlainText(hint))
		b.WriteString("\n")
	}
	return b.String()
}

// acceptedAnswerScript builds the inline validation script that accepts the
// learner's trimmed input if it equals any accepted answer.
func acceptedAnswerScript(accepted []string) string {
	var b strings.Builder
	b.WriteString("<script>\nlet input = \"@input\".trim()\n")
	for i, answer := range accepted {
		if i > 0 {
			b.WriteString(" || ")
		}
		b.WriteString(`input == "` + escapeScriptString(answer) + `"`)
	}
	b.WriteString("\n</script>\n")
	return b.String()
}

func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

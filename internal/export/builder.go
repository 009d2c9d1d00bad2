package export

import (
	"strings"

	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/markdown"
)

// maxIndent is the deepest heading level the player supports. Depth beyond it
// collapses onto this level, it never errors.
const maxIndent = 6

// Section is one heading-level unit of the output document.
type Section struct {
	Title  string
	Indent int
	Body   []string
}

// Meta is the document metadata header. Empty fields are omitted by the
// serializer.
type Meta struct {
	Title    string
	Author   string
	Email    string
	Language string
	Narrator string
	Version  string
	Date     string
	Comment  string
	Logo     string
}

// Document is the built export model prior to serialization.
type Document struct {
	Meta     Meta
	Sections []Section
}

// Build flattens a course snapshot into the ordered section sequence. Lessons
// referenced by a chapter but absent from the snapshot are skipped and
// recorded on the report. The input is never mutated.
func Build(snap *course.Snapshot, opts Options, rep *Report) Document {
	doc := Document{Meta: buildMeta(snap.Course, opts)}

	if opts.AddTitlePage {
		doc.Sections = append(doc.Sections, titlePage(snap.Course, opts))
	}

	baseIndent := 1
	if opts.AddTitlePage {
		baseIndent = 2
	}

	lessons := snap.LessonMap()
	for _, chapter := range snap.Course.Content {
		addChapter(&doc, chapter, lessons, baseIndent, rep)
	}
	return doc
}

func buildMeta(c course.Course, opts Options) Meta {
	meta := Meta{
		Title:    c.Title,
		Language: opts.Language,
		Narrator: SelectNarrator(opts),
		Version:  "1.0",
		Date:     opts.Date,
		Logo:     c.ImgURL,
	}

	names := make([]string, 0, len(c.Authors))
	emails := make([]string, 0, len(c.Authors))
	for _, a := range c.Authors {
		names = append(names, a.DisplayName)
		emails = append(emails, a.Email)
	}
	meta.Author = strings.Join(names, ", ")
	if opts.ExportMailAddresses {
		meta.Email = strings.Join(emails, ", ")
	}
	if c.Description != "" {
		meta.Comment = markdown.ToPlainText(c.Description)
	}
	return meta
}

// titlePage builds the synthetic level-1 section summarizing course metadata.
// Every populated field contributes exactly one body block; omitted fields
// contribute nothing.
func titlePage(c course.Course, opts Options) Section {
	section := Section{Title: c.Title, Indent: 1}

	if c.Subtitle != "" {
		section.Body = append(section.Body, markdown.Markdownify(c.Subtitle))
	}
	if c.ImgURL != "" {
		section.Body = append(section.Body, "![Course Logo]("+c.ImgURL+")")
	}
	if c.Description != "" {
		section.Body = append(section.Body, markdown.Markdownify(c.Description))
	}

	if opts.ConsiderTopics {
		if c.Subject != nil {
			section.Body = append(section.Body, "**Fach:** "+c.Subject.Title)
		}
		if len(c.Specializations) > 0 {
			topic := "Spezialisierung"
			if len(c.Specializations) > 1 {
				topic = "Spezialisierungen"
			}
			titles := make([]string, 0, len(c.Specializations))
			for _, s := range c.Specializations {
				titles = append(titles, s.Title)
			}
			section.Body = append(section.Body, "**"+topic+":** "+strings.Join(titles, ", "))
		}
	}
	return section
}

func addChapter(doc *Document, chapter course.Chapter, lessons map[string]*course.Lesson, indent int, rep *Report) {
	section := Section{Title: chapter.Title, Indent: indent}
	if chapter.Description != "" {
		section.Body = append(section.Body, markdown.Markdownify(chapter.Description))
	}
	doc.Sections = append(doc.Sections, section)

	for _, ref := range chapter.Content {
		lesson, ok := lessons[ref.LessonID]
		if !ok {
			rep.missingLesson(ref.LessonID, chapter.Title)
			continue
		}
		addLesson(doc, lesson, childIndent(indent), rep)
	}
}

// addLesson emits the lesson's overview section followed by one child section
// per present content type and, last, the quiz. The order is fixed: overview,
// video, article, pdf, quiz.
func addLesson(doc *Document, lesson *course.Lesson, indent int, rep *Report) {
	overview := Section{Title: lesson.Title, Indent: indent}
	if lesson.Subtitle != "" {
		overview.Body = append(overview.Body, markdown.Markdownify(lesson.Subtitle))
	}
	if lesson.Description != "" {
		overview.Body = append(overview.Body, markdown.Markdownify(lesson.Description))
	}
	if lesson.SelfRegulatedQuestion != "" {
		overview.Body = append(overview.Body, markdown.Markdownify("Aktivierungsfrage: "+lesson.SelfRegulatedQuestion))
	}
	doc.Sections = append(doc.Sections, overview)

	contentIndent := childIndent(indent)
	for _, part := range []struct {
		kind  course.ContentType
		title string
	}{
		{course.ContentVideo, titleVideo},
		{course.ContentArticle, titleArticle},
		{course.ContentPDF, titlePDF},
	} {
		item, ok := lesson.FindContent(part.kind)
		if !ok {
			continue
		}
		block, ok := RenderContent(item)
		if !ok {
			continue
		}
		doc.Sections = append(doc.Sections, Section{
			Title:  part.title,
			Indent: contentIndent,
			Body:   []string{block},
		})
	}

	if lesson.Quiz != nil {
		quiz := Section{Title: titleQuiz, Indent: contentIndent}
		for _, question := range lesson.Quiz.Questions {
			if block, ok := CompileQuestion(question, rep); ok {
				quiz.Body = append(quiz.Body, block)
			}
		}
		doc.Sections = append(doc.Sections, quiz)
	}
}

func childIndent(indent int) int {
	if indent < maxIndent {
		return indent + 1
	}
	return maxIndent
}

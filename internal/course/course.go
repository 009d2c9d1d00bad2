package course

// Course is the read-only snapshot of one course as handed to the exporter.
// Chapters are ordered; their entries reference lessons by id.
type Course struct {
	CourseID        string
	Slug            string
	Title           string
	Subtitle        string
	Description     string
	ImgURL          string
	Authors         []Author
	Subject         *Subject
	Specializations []Specialization
	Content         []Chapter
}

// Author is one course author as shown in the document metadata.
type Author struct {
	DisplayName string
	Email       string
}

// Subject is the course's subject area.
type Subject struct {
	Title string
}

// Specialization is one specialization the course belongs to.
type Specialization struct {
	Title string
}

// Chapter is a flat grouping of lesson references. Chapters do not nest.
type Chapter struct {
	Title       string
	Description string
	Content     []ContentRef
}

// ContentRef points at a lesson by id. The referenced lesson may be absent
// from an export snapshot; consumers treat that as "not part of this export".
type ContentRef struct {
	LessonID string
}

// Lesson is the full body of one lesson, including its quiz.
type Lesson struct {
	LessonID              string
	Slug                  string
	Title                 string
	Subtitle              string
	Description           string
	SelfRegulatedQuestion string
	Content               []ContentItem
	Quiz                  *Quiz
}

// ContentType discriminates lesson media items.
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentArticle ContentType = "article"
	ContentPDF     ContentType = "pdf"
	ContentIFrame  ContentType = "iframe"
)

// ContentItem is one media item of a lesson. Video, pdf and iframe carry a
// URL; article carries the markdown body itself.
type ContentItem struct {
	Type    ContentType
	URL     string
	Article string
}

// FindContent returns the first content item of the given type.
func (l *Lesson) FindContent(t ContentType) (ContentItem, bool) {
	for _, item := range l.Content {
		if item.Type == t {
			return item, true
		}
	}
	return ContentItem{}, false
}

// Quiz is the ordered question list attached to a lesson.
type Quiz struct {
	Questions []Question
}

// QuestionType discriminates quiz question variants.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionExact          QuestionType = "exact"
	QuestionText           QuestionType = "text"
	QuestionCloze          QuestionType = "cloze"
	QuestionProgramming    QuestionType = "programming"
)

// Question is one quiz question. The populated fields depend on Type:
// Answers for multiple-choice, AcceptedAnswers for exact, ClozeText for
// cloze. Unknown types survive decoding so the exporter can report them.
type Question struct {
	Type            QuestionType
	Statement       string
	Answers         []Answer
	AcceptedAnswers []string
	ClozeText       string
	Hints           []string
}

// Answer is one multiple-choice option.
type Answer struct {
	Content   string
	IsCorrect bool
}

// Snapshot bundles a course with the full bodies of the lessons that are in
// scope for an export. Lessons referenced by the course but missing here are
// silently skipped by the exporter.
type Snapshot struct {
	Course  Course
	Lessons []Lesson
}

// LessonMap indexes the snapshot's lessons by id.
func (s *Snapshot) LessonMap() map[string]*Lesson {
	m := make(map[string]*Lesson, len(s.Lessons))
	for i := range s.Lessons {
		m[s.Lessons[i].LessonID] = &s.Lessons[i]
	}
	return m
}

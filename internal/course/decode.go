package course

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Raw snapshot shape as produced by the authoring platform. Content items,
// accepted answers and hints arrive as small wrapper objects; decoding
// flattens them into the model types.

type rawSnapshot struct {
	Course  rawCourse   `json:"course" yaml:"course"`
	Lessons []rawLesson `json:"lessons" yaml:"lessons"`
}

type rawCourse struct {
	CourseID        string       `json:"courseId" yaml:"courseId"`
	Slug            string       `json:"slug" yaml:"slug"`
	Title           string       `json:"title" yaml:"title"`
	Subtitle        string       `json:"subtitle" yaml:"subtitle"`
	Description     string       `json:"description" yaml:"description"`
	ImgURL          string       `json:"imgUrl" yaml:"imgUrl"`
	Authors         []rawAuthor  `json:"authors" yaml:"authors"`
	Subject         *Subject     `json:"subject" yaml:"subject"`
	Specializations []rawTitled  `json:"specializations" yaml:"specializations"`
	Content         []rawChapter `json:"content" yaml:"content"`
}

type rawAuthor struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	User        struct {
		Email string `json:"email" yaml:"email"`
	} `json:"user" yaml:"user"`
	// Flat alternative used by hand-written YAML fixtures.
	Email string `json:"email" yaml:"email"`
}

type rawTitled struct {
	Title string `json:"title" yaml:"title"`
}

type rawChapter struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Content     []struct {
		LessonID string `json:"lessonId" yaml:"lessonId"`
	} `json:"content" yaml:"content"`
}

type rawLesson struct {
	LessonID              string           `json:"lessonId" yaml:"lessonId"`
	Slug                  string           `json:"slug" yaml:"slug"`
	Title                 string           `json:"title" yaml:"title"`
	Subtitle              string           `json:"subtitle" yaml:"subtitle"`
	Description           string           `json:"description" yaml:"description"`
	SelfRegulatedQuestion string           `json:"selfRegulatedQuestion" yaml:"selfRegulatedQuestion"`
	Content               []rawContentItem `json:"content" yaml:"content"`
	Quiz                  *struct {
		Questions []rawQuestion `json:"questions" yaml:"questions"`
	} `json:"quiz" yaml:"quiz"`
}

type rawContentItem struct {
	Type  string `json:"type" yaml:"type"`
	Value struct {
		URL     string `json:"url" yaml:"url"`
		Content string `json:"content" yaml:"content"`
	} `json:"value" yaml:"value"`
}

type rawQuestion struct {
	Type            string `json:"type" yaml:"type"`
	Statement       string `json:"statement" yaml:"statement"`
	Answers         []struct {
		Content   string `json:"content" yaml:"content"`
		IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
	} `json:"answers" yaml:"answers"`
	AcceptedAnswers []struct {
		Value string `json:"value" yaml:"value"`
	} `json:"acceptedAnswers" yaml:"acceptedAnswers"`
	ClozeText string `json:"clozeText" yaml:"clozeText"`
	Hints     []struct {
		Content string `json:"content" yaml:"content"`
	} `json:"hints" yaml:"hints"`
}

// SupportedExtensions lists snapshot file extensions the CLI can read.
var SupportedExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// IsSupportedExtension checks if a snapshot filename is decodable.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DecodeSnapshot reads a snapshot, picking the codec by file extension.
func DecodeSnapshot(r io.Reader, filename string) (*Snapshot, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return DecodeSnapshotJSON(r)
	case ".yaml", ".yml":
		return DecodeSnapshotYAML(r)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", ext)
	}
}

// DecodeSnapshotJSON decodes a JSON course snapshot.
func DecodeSnapshotJSON(r io.Reader) (*Snapshot, error) {
	var raw rawSnapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot json: %w", err)
	}
	return raw.snapshot()
}

// DecodeSnapshotYAML decodes a YAML course snapshot.
func DecodeSnapshotYAML(r io.Reader) (*Snapshot, error) {
	var raw rawSnapshot
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot yaml: %w", err)
	}
	return raw.snapshot()
}

func (raw *rawSnapshot) snapshot() (*Snapshot, error) {
	if raw.Course.Title == "" {
		return nil, fmt.Errorf("snapshot has no course title")
	}

	snap := &Snapshot{
		Course: Course{
			CourseID:    raw.Course.CourseID,
			Slug:        raw.Course.Slug,
			Title:       raw.Course.Title,
			Subtitle:    raw.Course.Subtitle,
			Description: raw.Course.Description,
			ImgURL:      raw.Course.ImgURL,
			Subject:     raw.Course.Subject,
		},
	}
	for _, a := range raw.Course.Authors {
		email := a.User.Email
		if email == "" {
			email = a.Email
		}
		snap.Course.Authors = append(snap.Course.Authors, Author{
			DisplayName: a.DisplayName,
			Email:       email,
		})
	}
	for _, s := range raw.Course.Specializations {
		snap.Course.Specializations = append(snap.Course.Specializations, Specialization{Title: s.Title})
	}
	for _, ch := range raw.Course.Content {
		chapter := Chapter{Title: ch.Title, Description: ch.Description}
		for _, ref := range ch.Content {
			chapter.Content = append(chapter.Content, ContentRef{LessonID: ref.LessonID})
		}
		snap.Course.Content = append(snap.Course.Content, chapter)
	}

	for _, rl := range raw.Lessons {
		lesson := Lesson{
			LessonID:              rl.LessonID,
			Slug:                  rl.Slug,
			Title:                 rl.Title,
			Subtitle:              rl.Subtitle,
			Description:           rl.Description,
			SelfRegulatedQuestion: rl.SelfRegulatedQuestion,
		}
		for _, item := range rl.Content {
			lesson.Content = append(lesson.Content, ContentItem{
				Type:    ContentType(item.Type),
				URL:     item.Value.URL,
				Article: item.Value.Content,
			})
		}
		if rl.Quiz != nil {
			quiz := &Quiz{}
			for _, rq := range rl.Quiz.Questions {
				quiz.Questions = append(quiz.Questions, rq.question())
			}
			lesson.Quiz = quiz
		}
		snap.Lessons = append(snap.Lessons, lesson)
	}
	return snap, nil
}

func (rq *rawQuestion) question() Question {
	q := Question{
		Type:      QuestionType(rq.Type),
		Statement: rq.Statement,
		ClozeText: rq.ClozeText,
	}
	// The authoring platform historically used "short-text" for exact-answer
	// questions; both spellings decode to the same variant.
	if q.Type == "short-text" {
		q.Type = QuestionExact
	}
	for _, a := range rq.Answers {
		q.Answers = append(q.Answers, Answer{Content: a.Content, IsCorrect: a.IsCorrect})
	}
	for _, a := range rq.AcceptedAnswers {
		q.AcceptedAnswers = append(q.AcceptedAnswers, a.Value)
	}
	for _, h := range rq.Hints {
		q.Hints = append(q.Hints, h.Content)
	}
	return q
}

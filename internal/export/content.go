package export

import (
	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/markdown"
)

// Fixed section titles, matching the authoring platform's locale.
const (
	titleVideo   = "Video"
	titleArticle = "Artikel"
	titlePDF     = "PDF"
	titleQuiz    = "Lernzielkontrolle"
)

// RenderContent maps one lesson media item onto its body block. Items the
// player cannot embed (iframe and unknown future types) render nothing.
func RenderContent(item course.ContentItem) (string, bool) {
	switch item.Type {
	case course.ContentVideo:
		return "!?[Video](" + item.URL + ")", true
	case course.ContentArticle:
		// The section tag makes the player treat the article as one block
		// section instead of inline text.
		return markdown.Markdownify(item.Article, markdown.WithHTMLTag("section")), true
	case course.ContentPDF:
		return item.URL, true
	}
	return "", false
}

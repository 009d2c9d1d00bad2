// Command liaexport converts a course snapshot file (JSON or YAML) into a
// LiaScript document without going through the HTTP service. Non-fatal export
// issues are printed as a summary list on stderr.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/export"
)

func main() {
	var (
		in        = flag.String("in", "", "course snapshot file (.json, .yaml or .yml)")
		out       = flag.String("out", "", "output file (default: stdout)")
		lang      = flag.String("lang", "de", "document locale tag")
		narrator  = flag.String("narrator", "female", "narrator voice (female, male)")
		date      = flag.String("date", "", "document date metadata (default: today)")
		noTitle   = flag.Bool("no-title-page", false, "skip the synthetic title page")
		noTopics  = flag.Bool("no-topics", false, "skip subject/specialization lines")
		noEmails  = flag.Bool("no-emails", false, "omit author emails from metadata")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *in == "" {
		log.Error("missing -in flag")
		os.Exit(2)
	}
	if !course.IsSupportedExtension(*in) {
		log.Error("unsupported snapshot format", "file", *in)
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Error("open snapshot", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	snap, err := course.DecodeSnapshot(f, *in)
	if err != nil {
		log.Error("decode snapshot", "error", err)
		os.Exit(1)
	}

	opts := export.DefaultOptions()
	opts.Language = *lang
	opts.Narrator = export.Narrator(*narrator)
	opts.AddTitlePage = !*noTitle
	opts.ConsiderTopics = !*noTopics
	opts.ExportMailAddresses = !*noEmails
	opts.Date = *date
	if opts.Date == "" {
		opts.Date = time.Now().Format("02.01.2006")
	}

	doc, rep := export.Export(snap, opts)

	if *out == "" {
		fmt.Print(doc)
	} else if err := os.WriteFile(*out, []byte(doc), 0o644); err != nil {
		log.Error("write output", "error", err)
		os.Exit(1)
	}

	if rep.HasWarnings() {
		log.Warn("export finished with warnings",
			"missing_lessons", rep.MissingLessons,
			"skipped_questions", rep.SkippedQuestions,
		)
		for _, warning := range rep.Warnings {
			fmt.Fprintln(os.Stderr, "  - "+warning)
		}
	}
}

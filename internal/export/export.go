// Package export flattens a course snapshot into a single depth-indented
// LiaScript document: a metadata header followed by ordered heading sections
// at levels 1 to 6. The whole package is a pure transformation over owned
// in-memory input; it performs no I/O and never fails once given a decoded
// snapshot, so independent exports may run concurrently without locking.
package export

import "github.com/spark-sse/liaexport/internal/course"

// Export builds and serializes a course snapshot in one call. The returned
// report carries the non-fatal issues (missing lessons, skipped questions);
// it is never nil.
func Export(snap *course.Snapshot, opts Options) (string, *Report) {
	rep := &Report{}
	doc := Build(snap, opts, rep)
	return Serialize(doc), rep
}

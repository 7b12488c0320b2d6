package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/giornetta/parsebench"
)

// Reporter prints the human readable report of a run.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}

	return &Reporter{w: w}
}

func (r *Reporter) BatchHeader(n int) {
	fmt.Fprintf(r.w, "BATCH %d\n", n)
}

func (r *Reporter) FileName(name string) {
	fmt.Fprintln(r.w, name)
}

func (r *Reporter) Tokens(tokens []parsebench.Lexeme) {
	for _, t := range tokens {
		fmt.Fprintln(r.w, t)
	}
}

func (r *Reporter) Trial(t TrialResult) {
	ms := t.Elapsed.Milliseconds()

	var linesPerSec, charsPerSec int64
	if secs := t.Elapsed.Seconds(); secs > 0 {
		linesPerSec = int64(float64(t.Lines) / secs)
		charsPerSec = int64(float64(t.Chars) / secs)
	}

	fmt.Fprintf(r.w, "Parsed %d files %s lines %s bytes in %4dms at %9s lines/sec %10s chars/sec instances %9s heap %13s bytes\n",
		t.Files,
		humanize.Comma(int64(t.Lines)),
		humanize.Comma(int64(t.Chars)),
		ms,
		humanize.Comma(linesPerSec),
		humanize.Comma(charsPerSec),
		humanize.Comma(t.Objects),
		humanize.Comma(t.Bytes))
}

// DocumentTimings prints one line per document: size, elapsed nanoseconds, cache size before and after, name.
func (r *Reporter) DocumentTimings(docs []DocumentResult) {
	for _, d := range docs {
		fmt.Fprintf(r.w, "%d %d %d %d %s\n", d.Bytes, d.Elapsed.Nanoseconds(), d.CacheBefore, d.CacheAfter, d.Name)
	}
}

func (r *Reporter) Summary(s Statistics) {
	fmt.Fprintf(r.w, "average parse %.3fms, min %.3fms, stddev=%.3fms (first %d trials skipped for warm-up)\n",
		millis(s.Mean), millis(s.Min), millis(s.StdDev), s.Skip)
}

func (r *Reporter) Overall(s Statistics) {
	fmt.Fprintf(r.w, "Overall average parse %.3fms, stddev=%.3fms\n", millis(s.Mean), millis(s.StdDev))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WriteJSON stores res at path, indented.
func WriteJSON(path string, res *RunResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode run result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write run result: %w", err)
	}

	return nil
}

// Package detect classifies source text as minified or not using surface
// statistics only. It never parses the code and never fails: malformed
// input is just another input to classify.
package detect

import (
	"strings"
	"unicode"

	"beaunifi/internal/model"
)

// Thresholds are the named tuning knobs of the classifier. Keeping them
// explicit makes each signal independently auditable and testable.
type Thresholds struct {
	// MinLength is the floor below which input carries too little signal
	// and is always classified as not minified.
	MinLength int
	// LongLine is the average (and single-line) length above which a line
	// is considered machine-written.
	LongLine int
	// LowWhitespaceRatio is the whitespace-to-content ratio below which
	// code is considered stripped.
	LowWhitespaceRatio float64
	// FewLines and FewLinesMinLength together flag inputs squeezed onto a
	// handful of lines despite substantial length.
	FewLines          int
	FewLinesMinLength int
	// IndentedLineRatio is the minimum fraction of indented lines a
	// hand-formatted multi-line file is expected to have.
	IndentedLineRatio float64
}

// DefaultThresholds returns the tuning for a language. Formatted CSS runs
// shorter lines than formatted JS, so its long-line threshold sits lower.
func DefaultThresholds(lang model.Lang) Thresholds {
	t := Thresholds{
		MinLength:          50,
		LongLine:           200,
		LowWhitespaceRatio: 0.05,
		FewLines:           3,
		FewLinesMinLength:  200,
		IndentedLineRatio:  0.1,
	}
	if lang == model.LangCSS {
		t.LongLine = 120
	}
	return t
}

// Verdict is a classification together with the signals that produced it.
// It is derived fresh on every call and never mutated.
type Verdict struct {
	Minified        bool    `json:"minified"`
	Lines           int     `json:"lines"`
	NonEmptyLines   int     `json:"non_empty_lines"`
	AvgLineLen      float64 `json:"avg_line_len"`
	LongestLine     int     `json:"longest_line"`
	WhitespaceRatio float64 `json:"whitespace_ratio"`
	Indented        bool    `json:"indented"`
}

// IsMinified reports whether code appears to be minified, using the
// default thresholds for the language.
func IsMinified(code string, lang model.Lang) bool {
	return Classify(code, DefaultThresholds(lang)).Minified
}

// Classify scores code against the given thresholds. Deterministic: the
// same input and thresholds always produce the same verdict.
func Classify(code string, t Thresholds) Verdict {
	v, indentedLines := measure(code)

	// Hand-formatted multi-line code indents at least some fraction of its
	// lines; a wall of flush-left lines counts as unindented.
	if v.NonEmptyLines > 1 {
		v.Indented = float64(indentedLines)/float64(v.NonEmptyLines) >= t.IndentedLineRatio
	}

	if len(code) < t.MinLength || v.NonEmptyLines == 0 {
		return v
	}

	// A single line past the long-line mark is the strongest minification
	// signal there is; no vote needed.
	if v.NonEmptyLines == 1 && v.LongestLine > t.LongLine {
		v.Minified = true
		return v
	}

	votes := 0
	if v.Lines <= t.FewLines && len(code) > t.FewLinesMinLength {
		votes++
	}
	if v.AvgLineLen > float64(t.LongLine) {
		votes++
	}
	if v.WhitespaceRatio < t.LowWhitespaceRatio {
		votes++
	}
	if !v.Indented {
		votes++
	}
	v.Minified = votes >= 2
	return v
}

func measure(code string) (Verdict, int) {
	var v Verdict
	if code == "" {
		return v, 0
	}

	lines := strings.Split(code, "\n")
	v.Lines = len(lines)

	totalLen := 0
	indented := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		v.NonEmptyLines++
		totalLen += len(line)
		if len(line) > v.LongestLine {
			v.LongestLine = len(line)
		}
		if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
			indented++
		}
	}
	if v.NonEmptyLines > 0 {
		v.AvgLineLen = float64(totalLen) / float64(v.NonEmptyLines)
	}

	// Both counts are in runes so multi-byte characters do not drag the
	// ratio down.
	ws, runes := 0, 0
	for _, r := range code {
		runes++
		if unicode.IsSpace(r) {
			ws++
		}
	}
	v.WhitespaceRatio = float64(ws) / float64(runes)

	return v, indented
}

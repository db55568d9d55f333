// Package transform wraps the external formatter and minifier libraries
// behind two functions, Beautify and Minify, normalizing their option and
// error surfaces. Both are side-effect-free; neither holds state across
// calls.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"

	"beaunifi/internal/model"
)

// ErrInvalidIndent is returned when indent_size is not a positive integer.
var ErrInvalidIndent = errors.New("indent_size must be a positive integer")

const (
	// DefaultIndentSize is the indentation used when the caller does not
	// specify one.
	DefaultIndentSize = 2

	mediaTypeJS  = "application/javascript"
	mediaTypeCSS = "text/css"
)

// FormatError reports that the underlying formatter or minifier rejected
// the input as unparseable. Message carries the parser's own text.
type FormatError struct {
	Stage   string
	Lang    model.Lang
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Stage, e.Lang, e.Message)
}

// Options are the named optional parameters of Beautify.
type Options struct {
	IndentSize int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{IndentSize: DefaultIndentSize}
}

// pretty-printing and minification are delegated to esbuild and tdewolff
// respectively; minifier is safe for concurrent use once populated.
var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc(mediaTypeJS, js.Minify)
	m.AddFunc(mediaTypeCSS, css.Minify)
	return m
}()

// Beautify reformats code with consistent indentation and line breaks.
// It fails with *FormatError when the input does not parse.
func Beautify(code string, lang model.Lang, opts Options) (string, error) {
	if opts.IndentSize <= 0 {
		return "", ErrInvalidIndent
	}

	res := api.Transform(code, api.TransformOptions{
		Loader:  loaderFor(lang),
		Charset: api.CharsetUTF8,
	})
	if len(res.Errors) > 0 {
		return "", &FormatError{Stage: "beautify", Lang: lang, Message: res.Errors[0].Text}
	}

	out := string(res.Code)
	if opts.IndentSize != 2 {
		out = reindent(out, opts.IndentSize)
	}
	return out, nil
}

// Minify strips code down to its delivery form. It fails with
// *FormatError when the input does not parse.
func Minify(code string, lang model.Lang) (string, error) {
	out, err := minifier.String(mediaTypeFor(lang), code)
	if err != nil {
		return "", &FormatError{Stage: "minify", Lang: lang, Message: err.Error()}
	}
	return out, nil
}

// Facade adapts the package-level functions to the method set consumers
// depend on (and mock in tests).
type Facade struct{}

func (Facade) Beautify(code string, lang model.Lang, opts Options) (string, error) {
	return Beautify(code, lang, opts)
}

func (Facade) Minify(code string, lang model.Lang) (string, error) {
	return Minify(code, lang)
}

func loaderFor(lang model.Lang) api.Loader {
	if lang == model.LangCSS {
		return api.LoaderCSS
	}
	return api.LoaderJS
}

func mediaTypeFor(lang model.Lang) string {
	if lang == model.LangCSS {
		return mediaTypeCSS
	}
	return mediaTypeJS
}

// reindent rescales the printer's fixed two-space indentation to the
// requested width. Lines that begin inside a template literal or block
// comment are left alone: their leading whitespace is content, not
// indentation.
func reindent(code string, indentSize int) string {
	lines := strings.Split(code, "\n")
	var sc rawScanner
	for i, line := range lines {
		raw := sc.inRaw()
		sc.scanLine(line)
		if raw {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / 2
		if depth > 0 {
			lines[i] = strings.Repeat(" ", depth*indentSize) + trimmed
		}
	}
	return strings.Join(lines, "\n")
}

// rawScanner tracks which positions of printer output fall inside raw
// text, meaning template literals and block comments. Those are the only
// contexts the printer lets span a line break: single- and double-quoted
// strings always come back on one line.
type rawScanner struct {
	inComment bool
	// stack holds the open template-literal nesting. raw entries are the
	// literal text itself, non-raw entries are a ${ } expression with its
	// own brace count.
	stack []tmplCtx
}

type tmplCtx struct {
	raw    bool
	braces int
}

func (s *rawScanner) inRaw() bool {
	return s.inComment || (len(s.stack) > 0 && s.stack[len(s.stack)-1].raw)
}

func (s *rawScanner) scanLine(line string) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if s.inComment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inComment = false
				i++
			}
			continue
		}
		if len(s.stack) > 0 && s.stack[len(s.stack)-1].raw {
			switch c {
			case '\\':
				i++
			case '`':
				s.stack = s.stack[:len(s.stack)-1]
			case '$':
				if i+1 < len(line) && line[i+1] == '{' {
					s.stack = append(s.stack, tmplCtx{})
					i++
				}
			}
			continue
		}
		switch c {
		case '\'', '"':
			i = skipQuoted(line, i)
		case '`':
			s.stack = append(s.stack, tmplCtx{raw: true})
		case '/':
			if i+1 < len(line) {
				switch line[i+1] {
				case '/':
					return
				case '*':
					s.inComment = true
					i++
				}
			}
		case '{':
			if n := len(s.stack); n > 0 {
				s.stack[n-1].braces++
			}
		case '}':
			if n := len(s.stack); n > 0 {
				if s.stack[n-1].braces == 0 {
					s.stack = s.stack[:n-1]
				} else {
					s.stack[n-1].braces--
				}
			}
		}
	}
}

// skipQuoted advances past a single- or double-quoted string starting at
// start, honoring backslash escapes, and returns the index of the closing
// quote.
func skipQuoted(line string, start int) int {
	quote := line[start]
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return len(line)
}

package model

import (
	"errors"
	"strings"
)

var (
	ErrUnknownLang   = errors.New("unknown file type")
	ErrUnknownAction = errors.New("unknown action")
)

// Lang identifies the language of a piece of source text.
type Lang string

const (
	LangJS  Lang = "js"
	LangCSS Lang = "css"
)

// ParseLang validates a file_type value coming from a request.
func ParseLang(s string) (Lang, error) {
	switch Lang(s) {
	case LangJS, LangCSS:
		return Lang(s), nil
	}
	return "", ErrUnknownLang
}

// ResolveLang parses an explicit file_type, falling back to the filename
// extension when file_type is empty.
func ResolveLang(fileType, filename string) (Lang, error) {
	if fileType == "" && filename != "" {
		if lang, ok := FileTypeFromName(filename); ok {
			return lang, nil
		}
	}
	return ParseLang(fileType)
}

// Action is the operation a smart-process call performs on prepared code.
type Action string

const (
	// ActionRead returns the code in readable form without changing it.
	ActionRead Action = "read"
	// ActionEdit applies the caller's edited text and keeps the result readable.
	ActionEdit Action = "edit"
	// ActionWrite applies the caller's edited text and restores the delivery form.
	ActionWrite Action = "write"
)

// ParseAction validates an action value coming from a request.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionRead, ActionEdit, ActionWrite:
		return Action(s), nil
	}
	return "", ErrUnknownAction
}

// ProcessResult is the outcome of one smart-process invocation.
// It is owned by the caller once returned; nothing is retained server-side.
type ProcessResult struct {
	Code           string `json:"code"`
	WasMinified    bool   `json:"was_minified"`
	WasBeautified  bool   `json:"was_beautified"`
	Action         Action `json:"action"`
	FileType       Lang   `json:"file_type"`
	OriginalLength int    `json:"original_length"`
	FinalLength    int    `json:"final_length"`
	Message        string `json:"message"`
}

// FileTypeFromName maps a filename extension to a Lang.
// Preprocessor dialects map to their compiled language.
func FileTypeFromName(filename string) (Lang, bool) {
	name := strings.ToLower(filename)
	switch {
	case hasAnySuffix(name, ".js", ".jsx", ".mjs", ".cjs"):
		return LangJS, true
	case hasAnySuffix(name, ".css", ".scss", ".sass", ".less"):
		return LangCSS, true
	}
	return "", false
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

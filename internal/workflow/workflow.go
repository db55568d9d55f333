package workflow

import (
	"context"
	"fmt"

	"beaunifi/internal/detect"
	"beaunifi/internal/model"
	"beaunifi/internal/transform"
)

// Transformer is the external formatter/minifier collaborator. The real
// implementation is transform.Facade; tests substitute a mock.
type Transformer interface {
	Beautify(code string, lang model.Lang, opts transform.Options) (string, error)
	Minify(code string, lang model.Lang) (string, error)
}

// Config carries the per-language classifier thresholds and the default
// indentation used when a request leaves indent_size unset.
type Config struct {
	JS                detect.Thresholds
	CSS               detect.Thresholds
	DefaultIndentSize int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		JS:                detect.DefaultThresholds(model.LangJS),
		CSS:               detect.DefaultThresholds(model.LangCSS),
		DefaultIndentSize: transform.DefaultIndentSize,
	}
}

// ProcessRequest is one smart-process invocation. Modifications is the
// caller's edited replacement text; empty means not provided. IndentSize
// zero means the configured default.
type ProcessRequest struct {
	Code          string
	Lang          model.Lang
	Action        model.Action
	Modifications string
	IndentSize    int
}

// Service defines the tool operations. Everything is a pure function of
// its arguments plus the transformer; nothing persists across calls.
type Service interface {
	// Beautify reformats code for human readability.
	Beautify(ctx context.Context, code string, lang model.Lang, indentSize int) (string, error)

	// Minify strips code down to its delivery form.
	Minify(ctx context.Context, code string, lang model.Lang) (string, error)

	// IsMinified classifies code and returns the verdict with its signals.
	// It never fails: malformed code is classified, not parsed.
	IsMinified(ctx context.Context, code string, lang model.Lang) detect.Verdict

	// Process runs the smart workflow: classify, beautify when minified,
	// perform the action, and restore the minified form on write.
	Process(ctx context.Context, req ProcessRequest) (*model.ProcessResult, error)
}

type service struct {
	transformer Transformer
	cfg         Config
}

// NewService constructs a Service around the given transformer.
func NewService(transformer Transformer, cfg Config) Service {
	if cfg.DefaultIndentSize <= 0 {
		cfg.DefaultIndentSize = transform.DefaultIndentSize
	}
	return &service{transformer: transformer, cfg: cfg}
}

func (s *service) Beautify(_ context.Context, code string, lang model.Lang, indentSize int) (string, error) {
	if _, err := model.ParseLang(string(lang)); err != nil {
		return "", err
	}
	return s.transformer.Beautify(code, lang, s.options(indentSize))
}

func (s *service) Minify(_ context.Context, code string, lang model.Lang) (string, error) {
	if _, err := model.ParseLang(string(lang)); err != nil {
		return "", err
	}
	return s.transformer.Minify(code, lang)
}

func (s *service) IsMinified(_ context.Context, code string, lang model.Lang) detect.Verdict {
	return detect.Classify(code, s.thresholds(lang))
}

func (s *service) Process(_ context.Context, req ProcessRequest) (*model.ProcessResult, error) {
	if _, err := model.ParseLang(string(req.Lang)); err != nil {
		return nil, err
	}
	if req.Action == "" {
		req.Action = model.ActionRead
	}
	if _, err := model.ParseAction(string(req.Action)); err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownAction, req.Action)
	}

	verdict := detect.Classify(req.Code, s.thresholds(req.Lang))

	result := &model.ProcessResult{
		WasMinified:    verdict.Minified,
		Action:         req.Action,
		FileType:       req.Lang,
		OriginalLength: len(req.Code),
	}

	// Prepare: the working code is always the readable form.
	working := req.Code
	if verdict.Minified {
		beautified, err := s.transformer.Beautify(working, req.Lang, s.options(req.IndentSize))
		if err != nil {
			return nil, err
		}
		working = beautified
		result.WasBeautified = true
	}

	switch req.Action {
	case model.ActionRead:
		result.Message = "Code beautified for reading. Edit and use the write action to get the minified result."

	case model.ActionEdit:
		if req.Modifications != "" {
			working = req.Modifications
		}
		result.Message = "Modifications applied. Use the write action to get the minified result."

	case model.ActionWrite:
		if req.Modifications != "" {
			working = req.Modifications
		}
		// Restore the delivery form the caller handed us.
		if verdict.Minified {
			minified, err := s.transformer.Minify(working, req.Lang)
			if err != nil {
				return nil, err
			}
			working = minified
		}
		result.Message = "Code processed for delivery."
	}

	result.Code = working
	result.FinalLength = len(working)
	return result, nil
}

func (s *service) thresholds(lang model.Lang) detect.Thresholds {
	if lang == model.LangCSS {
		return s.cfg.CSS
	}
	return s.cfg.JS
}

func (s *service) options(indentSize int) transform.Options {
	if indentSize <= 0 {
		indentSize = s.cfg.DefaultIndentSize
	}
	return transform.Options{IndentSize: indentSize}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"beaunifi/internal/model"
	"beaunifi/internal/workflow"
)

// transformRequest is the body shared by the four transform tools.
// indent_size is optional; nil means the configured default.
type transformRequest struct {
	Code       string `json:"code"`
	IndentSize *int   `json:"indent_size"`
}

// classifyRequest is the body of the is_minified tool.
type classifyRequest struct {
	Code     string `json:"code"`
	FileType string `json:"file_type"`
}

// processRequest is the body of the smart_process tool. file_type may be
// omitted when filename carries a recognizable extension.
type processRequest struct {
	Code          string `json:"code"`
	FileType      string `json:"file_type"`
	Filename      string `json:"filename"`
	Action        string `json:"action"`
	Modifications string `json:"modifications"`
	IndentSize    *int   `json:"indent_size"`
}

type codeResponse struct {
	Code string `json:"code"`
}

type classifyResponse struct {
	IsMinified bool   `json:"is_minified"`
	Message    string `json:"message"`
}

// RegisterRoutes attaches the tool endpoints to the provided Fiber app.
// Handlers stay thin: parse, validate, dispatch to the workflow service.
func RegisterRoutes(app *fiber.App, svc workflow.Service) {
	app.Get("/healthz", LivenessProbe())
	app.Get("/docs", Docs())

	tools := app.Group("/tools")
	tools.Post("/beautify_js", BeautifyTool(svc, model.LangJS))
	tools.Post("/minify_js", MinifyTool(svc, model.LangJS))
	tools.Post("/beautify_css", BeautifyTool(svc, model.LangCSS))
	tools.Post("/minify_css", MinifyTool(svc, model.LangCSS))
	tools.Post("/is_minified", IsMinifiedTool(svc))
	tools.Post("/smart_process", SmartProcessTool(svc))
}

// LivenessProbe reports process liveness. There are no dependencies to
// check: every call is stateless over its own input.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// BeautifyTool handles beautify_js / beautify_css.
func BeautifyTool(svc workflow.Service, lang model.Lang) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req transformRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		indent, ok := indentSize(req.IndentSize)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDENT_SIZE", "indent_size must be a positive integer")
		}

		out, err := svc.Beautify(c.UserContext(), req.Code, lang, indent)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(codeResponse{Code: out})
	}
}

// MinifyTool handles minify_js / minify_css.
func MinifyTool(svc workflow.Service, lang model.Lang) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req transformRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		out, err := svc.Minify(c.UserContext(), req.Code, lang)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(codeResponse{Code: out})
	}
}

// IsMinifiedTool handles is_minified. It never fails on the code itself;
// only the file_type can be invalid.
func IsMinifiedTool(svc workflow.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req classifyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		lang, err := model.ParseLang(req.FileType)
		if err != nil {
			return writeServiceError(c, err)
		}

		verdict := svc.IsMinified(c.UserContext(), req.Code, lang)
		msg := "code appears to be beautified/normal"
		if verdict.Minified {
			msg = "code appears to be minified"
		}
		return c.JSON(classifyResponse{IsMinified: verdict.Minified, Message: msg})
	}
}

// SmartProcessTool handles smart_process.
func SmartProcessTool(svc workflow.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req processRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		lang, err := model.ResolveLang(req.FileType, req.Filename)
		if err != nil {
			return writeServiceError(c, err)
		}
		action := model.ActionRead
		if req.Action != "" {
			if action, err = model.ParseAction(req.Action); err != nil {
				return writeServiceError(c, err)
			}
		}
		indent, ok := indentSize(req.IndentSize)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDENT_SIZE", "indent_size must be a positive integer")
		}

		res, err := svc.Process(c.UserContext(), workflow.ProcessRequest{
			Code:          req.Code,
			Lang:          lang,
			Action:        action,
			Modifications: req.Modifications,
			IndentSize:    indent,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Docs serves a short plain-text description of the tool surface.
func Docs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("txt").SendString(toolDocs)
	}
}

// indentSize resolves the optional indent_size field: absent means the
// configured default (signalled by zero), present values must be positive.
func indentSize(v *int) (int, bool) {
	if v == nil {
		return 0, true
	}
	if *v <= 0 {
		return 0, false
	}
	return *v, true
}

const toolDocs = `Beaunifi

Available tools (POST /tools/<name>):
- beautify_js: beautify JavaScript code
- beautify_css: beautify CSS code
- minify_js: minify JavaScript code
- minify_css: minify CSS code
- is_minified: check if code appears to be minified
- smart_process: auto-detect, beautify if needed, process, re-minify

Use smart_process when working with files of unknown form.
`

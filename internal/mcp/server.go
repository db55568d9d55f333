// Package mcp exposes the tool surface over the Model Context Protocol so
// editor assistants can call it directly. Tool failures are reported as
// tool-error results, never as protocol errors.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"beaunifi/internal/model"
	"beaunifi/internal/workflow"
)

const (
	serverName    = "beaunifi"
	serverVersion = "1.0.0"

	docsURI = "beaunifi://docs"
)

// NewServer builds the MCP server with the six tools and the docs
// resource registered against the given workflow service.
func NewServer(svc workflow.Service) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("beautify_js",
		mcp.WithDescription("Beautify JavaScript code to make it readable"),
		mcp.WithString("code", mcp.Required(), mcp.Description("JavaScript code to beautify")),
		mcp.WithNumber("indent_size", mcp.DefaultNumber(2), mcp.Description("Number of spaces for indentation")),
	), beautifyHandler(svc, model.LangJS))

	s.AddTool(mcp.NewTool("minify_js",
		mcp.WithDescription("Minify JavaScript code for production"),
		mcp.WithString("code", mcp.Required(), mcp.Description("JavaScript code to minify")),
	), minifyHandler(svc, model.LangJS))

	s.AddTool(mcp.NewTool("beautify_css",
		mcp.WithDescription("Beautify CSS code to make it readable"),
		mcp.WithString("code", mcp.Required(), mcp.Description("CSS code to beautify")),
		mcp.WithNumber("indent_size", mcp.DefaultNumber(2), mcp.Description("Number of spaces for indentation")),
	), beautifyHandler(svc, model.LangCSS))

	s.AddTool(mcp.NewTool("minify_css",
		mcp.WithDescription("Minify CSS code for production"),
		mcp.WithString("code", mcp.Required(), mcp.Description("CSS code to minify")),
	), minifyHandler(svc, model.LangCSS))

	s.AddTool(mcp.NewTool("is_minified",
		mcp.WithDescription("Check if code appears to be minified based on line length and structure"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Code to check")),
		mcp.WithString("file_type", mcp.Required(), mcp.Enum("js", "css"), mcp.Description("Type of code (js or css)")),
	), isMinifiedHandler(svc))

	s.AddTool(mcp.NewTool("smart_process",
		mcp.WithDescription("Smart workflow: auto-detect if minified, beautify if needed, process, and re-minify on write. Use it when editing minified files."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Code to process")),
		mcp.WithString("file_type", mcp.Enum("js", "css"), mcp.Description("Type of code (js or css); may be omitted when filename is given")),
		mcp.WithString("filename", mcp.Description("Filename whose extension identifies the type when file_type is omitted")),
		mcp.WithString("action", mcp.DefaultString("read"), mcp.Enum("read", "edit", "write"),
			mcp.Description("read returns readable code, edit applies the provided text, write restores the minified delivery form")),
		mcp.WithString("modifications", mcp.Description("Replacement text to apply for the edit and write actions")),
		mcp.WithNumber("indent_size", mcp.DefaultNumber(2), mcp.Description("Number of spaces for indentation when beautifying")),
	), smartProcessHandler(svc))

	s.AddResource(mcp.NewResource(docsURI, "Beaunifi Documentation",
		mcp.WithResourceDescription("Documentation for the Beaunifi tool server"),
		mcp.WithMIMEType("text/plain"),
	), docsHandler)

	return s
}

func beautifyHandler(svc workflow.Service, lang model.Lang) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := svc.Beautify(ctx, code, lang, request.GetInt("indent_size", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func minifyHandler(svc workflow.Service, lang model.Lang) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := svc.Minify(ctx, code, lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func isMinifiedHandler(svc workflow.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lang, err := model.ParseLang(request.GetString("file_type", "js"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		verdict := svc.IsMinified(ctx, code, lang)
		msg := "Code appears to be beautified/normal"
		if verdict.Minified {
			msg = "Code appears to be minified"
		}
		return jsonResult(map[string]any{
			"is_minified": verdict.Minified,
			"message":     msg,
		})
	}
}

func smartProcessHandler(svc workflow.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lang, err := model.ResolveLang(request.GetString("file_type", ""), request.GetString("filename", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action, err := model.ParseAction(request.GetString("action", "read"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := svc.Process(ctx, workflow.ProcessRequest{
			Code:          code,
			Lang:          lang,
			Action:        action,
			Modifications: request.GetString("modifications", ""),
			IndentSize:    request.GetInt("indent_size", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	}
}

func docsHandler(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      docsURI,
			MIMEType: "text/plain",
			Text:     docsText,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

const docsText = `# Beaunifi

Available tools:
- beautify_js: Beautify JavaScript code
- beautify_css: Beautify CSS code
- minify_js: Minify JavaScript code
- minify_css: Minify CSS code
- is_minified: Check if code appears to be minified
- smart_process: Smart workflow - auto-detect, beautify if needed, process, re-minify

Use smart_process for the best experience when working with unknown files.
`

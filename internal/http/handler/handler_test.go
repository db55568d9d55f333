package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"beaunifi/internal/detect"
	"beaunifi/internal/model"
	"beaunifi/internal/transform"
	"beaunifi/internal/workflow"
	workflowMocks "beaunifi/internal/workflow/mocks"
)

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBeautifyTool(t *testing.T) {
	mockSvc := new(workflowMocks.MockService)
	app := fiber.New()
	app.Post("/tools/beautify_js", BeautifyTool(mockSvc, model.LangJS))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Beautify", mock.Anything, "var a=1;", model.LangJS, 0).
			Return("var a = 1;\n", nil).Once()

		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "var a=1;"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[codeResponse](t, resp)
		assert.Equal(t, "var a = 1;\n", body.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("explicit indent size", func(t *testing.T) {
		mockSvc.On("Beautify", mock.Anything, "var a=1;", model.LangJS, 4).
			Return("var a = 1;\n", nil).Once()

		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "var a=1;", "indent_size": 4})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid indent size", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "var a=1;", "indent_size": -1})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_INDENT_SIZE", body.Error.Code)
	})

	t.Run("unparseable input", func(t *testing.T) {
		mockSvc.On("Beautify", mock.Anything, "function(", model.LangJS, 0).
			Return("", &transform.FormatError{Stage: "beautify", Lang: model.LangJS, Message: "Expected identifier but found \"(\""}).Once()

		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "function("})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "UNPARSEABLE_INPUT", body.Error.Code)
		assert.Contains(t, body.Error.Message, "Expected identifier")
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tools/beautify_js", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_BODY", body.Error.Code)
	})
}

func TestMinifyTool(t *testing.T) {
	mockSvc := new(workflowMocks.MockService)
	app := fiber.New()
	app.Post("/tools/minify_css", MinifyTool(mockSvc, model.LangCSS))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Minify", mock.Anything, ".a { color: red; }", model.LangCSS).
			Return(".a{color:red}", nil).Once()

		resp := postJSON(t, app, "/tools/minify_css", fiber.Map{"code": ".a { color: red; }"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[codeResponse](t, resp)
		assert.Equal(t, ".a{color:red}", body.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestIsMinifiedTool(t *testing.T) {
	mockSvc := new(workflowMocks.MockService)
	app := fiber.New()
	app.Post("/tools/is_minified", IsMinifiedTool(mockSvc))

	t.Run("minified", func(t *testing.T) {
		mockSvc.On("IsMinified", mock.Anything, "var a=1;", model.LangJS).
			Return(detect.Verdict{Minified: true}).Once()

		resp := postJSON(t, app, "/tools/is_minified", fiber.Map{"code": "var a=1;", "file_type": "js"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[classifyResponse](t, resp)
		assert.True(t, body.IsMinified)
		assert.Contains(t, body.Message, "minified")
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid file type", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/is_minified", fiber.Map{"code": "x", "file_type": "html"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_FILE_TYPE", body.Error.Code)
	})
}

func TestSmartProcessTool(t *testing.T) {
	mockSvc := new(workflowMocks.MockService)
	app := fiber.New()
	app.Post("/tools/smart_process", SmartProcessTool(mockSvc))

	t.Run("success", func(t *testing.T) {
		want := &model.ProcessResult{
			Code:        "var a = 1;\n",
			WasMinified: true,
			Action:      model.ActionRead,
			FileType:    model.LangJS,
		}
		mockSvc.On("Process", mock.Anything, workflow.ProcessRequest{
			Code: "var a=1;", Lang: model.LangJS, Action: model.ActionRead,
		}).Return(want, nil).Once()

		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{
			"code": "var a=1;", "file_type": "js", "action": "read",
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[model.ProcessResult](t, resp)
		assert.Equal(t, *want, body)
		mockSvc.AssertExpectations(t)
	})

	t.Run("action defaults to read", func(t *testing.T) {
		mockSvc.On("Process", mock.Anything, mock.MatchedBy(func(req workflow.ProcessRequest) bool {
			return req.Action == model.ActionRead
		})).Return(&model.ProcessResult{Action: model.ActionRead}, nil).Once()

		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{"code": "x", "file_type": "js"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file type from filename", func(t *testing.T) {
		mockSvc.On("Process", mock.Anything, mock.MatchedBy(func(req workflow.ProcessRequest) bool {
			return req.Lang == model.LangCSS
		})).Return(&model.ProcessResult{FileType: model.LangCSS}, nil).Once()

		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{
			"code": "x", "filename": "styles.min.css",
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unrecognized filename", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{
			"code": "x", "filename": "notes.txt",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_FILE_TYPE", body.Error.Code)
	})

	t.Run("invalid action", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{
			"code": "x", "file_type": "js", "action": "delete",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_ACTION", body.Error.Code)
	})

	t.Run("invalid file type", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/smart_process", fiber.Map{"code": "x", "file_type": "go"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "INVALID_FILE_TYPE", body.Error.Code)
	})
}

// The full surface wired through RegisterRoutes against the real service.
func TestRegisteredRoutesEndToEnd(t *testing.T) {
	svc := workflow.NewService(transform.Facade{}, workflow.DefaultConfig())
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, svc)

	t.Run("beautify then minify round trip", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "function test(){var a=1;return a+2}"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		pretty := decode[codeResponse](t, resp)
		assert.Contains(t, pretty.Code, "\n")

		resp = postJSON(t, app, "/tools/minify_js", fiber.Map{"code": pretty.Code})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		mini := decode[codeResponse](t, resp)
		assert.NotContains(t, mini.Code, "\n  ")
	})

	t.Run("unparseable js surfaces the parser message", func(t *testing.T) {
		resp := postJSON(t, app, "/tools/beautify_js", fiber.Map{"code": "function("})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "UNPARSEABLE_INPUT", body.Error.Code)
		assert.NotEmpty(t, body.Error.Message)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("docs", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

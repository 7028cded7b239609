package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan-ai/medscan/internal/document"
	"github.com/medscan-ai/medscan/internal/llm"
	"github.com/medscan-ai/medscan/internal/pipeline"
)

type stubExtractor struct{ text string }

func (s stubExtractor) Extract(context.Context, document.Document) string { return s.text }

type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

type stubTranslator struct{}

func (stubTranslator) Translate(_ context.Context, text string) string {
	return "[bn] " + text
}

func newTestApp(completer llm.Completer) *fiber.App {
	proc := pipeline.NewProcessor(nil,
		stubExtractor{text: "Hemoglobin: 10.2 g/dL"},
		completer,
		stubTranslator{},
	)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, proc, nil)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dst))
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	resp, err := app.Test(httptestRequest("GET", "/healthz", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func httptestRequest(method, target string, body io.Reader, contentType string) *http.Request {
	req, _ := http.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestUploadAnalyzesDocument(t *testing.T) {
	completer := &stubCompleter{response: "Your hemoglobin is slightly low."}
	app := newTestApp(completer)

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.4 fake"))
	resp, err := app.Test(httptestRequest("POST", "/upload", body, contentType))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Success  bool `json:"success"`
		Analysis struct {
			English string `json:"english"`
		} `json:"analysis"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "Your hemoglobin is slightly low.", out.Analysis.English)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Hemoglobin: 10.2 g/dL")
}

func TestUploadRejectsMissingFile(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	resp, err := app.Test(httptestRequest("POST", "/upload", &buf, w.FormDataContentType()))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.False(t, out.Success)
	assert.Equal(t, "No file part", out.Error)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	body, contentType := multipartUpload(t, "file", "notes.txt", []byte("plain text"))
	resp, err := app.Test(httptestRequest("POST", "/upload", body, contentType))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "Invalid file type", out.Error)
}

func TestAnalyzeSymptoms(t *testing.T) {
	completer := &stubCompleter{response: "Sounds like a cold."}
	app := newTestApp(completer)

	body := strings.NewReader(`{"symptoms": "runny nose, cough"}`)
	resp, err := app.Test(httptestRequest("POST", "/analyze-symptoms", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Success  bool `json:"success"`
		Analysis struct {
			English string `json:"english"`
		} `json:"analysis"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Contains(t, out.Analysis.English, "Sounds like a cold.")
	assert.Contains(t, out.Analysis.English, "https://medlineplus.gov/")

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "runny nose, cough")
}

func TestAnalyzeSymptomsRejectsEmpty(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	body := strings.NewReader(`{"symptoms": "   "}`)
	resp, err := app.Test(httptestRequest("POST", "/analyze-symptoms", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "Symptoms cannot be empty", out.Error)
}

func TestAnalyzeSymptomsModelDown(t *testing.T) {
	app := newTestApp(&stubCompleter{err: &llm.ModelError{
		Kind:    llm.ConnectionRefused,
		Message: "Error: Cannot connect to Ollama. Please make sure Ollama is running locally with deepseek-r1:14b model (ollama run deepseek-r1:14b)",
	}})

	body := strings.NewReader(`{"symptoms": "fever"}`)
	resp, err := app.Test(httptestRequest("POST", "/analyze-symptoms", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "Cannot connect to Ollama")
}

func TestAnalyzeMedicine(t *testing.T) {
	completer := &stubCompleter{response: "Paracetamol relieves pain and fever."}
	app := newTestApp(completer)

	body := strings.NewReader(`{
		"medicine": "Paracetamol",
		"dosage": {"morning": 1, "evening": 0, "night": 2},
		"patient": {"age": 42, "gender": "female"}
	}`)
	resp, err := app.Test(httptestRequest("POST", "/analyze-medicine", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Success  bool `json:"success"`
		Analysis struct {
			English string `json:"english"`
		} `json:"analysis"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Contains(t, out.Analysis.English, "https://medlineplus.gov/druginformation.html")

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "1 tablet(s) in the morning, 2 tablet(s) at night")
	assert.Contains(t, completer.prompts[0], "Age: 42 years old")
	assert.Contains(t, completer.prompts[0], "Gender: female")
}

func TestAnalyzeMedicineRejectsMalformedPayload(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	cases := []struct {
		name string
		body string
	}{
		{"missing dosage", `{"medicine": "Aspirin", "patient": {"age": 30, "gender": "male"}}`},
		{"negative dosage", `{"medicine": "Aspirin", "dosage": {"morning": -1, "evening": 0, "night": 0}, "patient": {"age": 30, "gender": "male"}}`},
		{"bad gender", `{"medicine": "Aspirin", "dosage": {"morning": 1, "evening": 0, "night": 0}, "patient": {"age": 30, "gender": "robot"}}`},
		{"not json", `not json at all`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptestRequest("POST", "/analyze-medicine", strings.NewReader(tc.body), fiber.MIMEApplicationJSON))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var out errorResponse
			decodeBody(t, resp, &out)
			assert.Equal(t, "Missing or invalid medicine information", out.Error)
		})
	}
}

func TestTranslate(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	body := strings.NewReader(`{"text": "Take one tablet daily"}`)
	resp, err := app.Test(httptestRequest("POST", "/translate", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out translationResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "[bn] Take one tablet daily", out.Translation)
}

func TestTranslateRejectsEmptyText(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	body := strings.NewReader(`{"text": ""}`)
	resp, err := app.Test(httptestRequest("POST", "/translate", body, fiber.MIMEApplicationJSON))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "Text cannot be empty", out.Error)
}

func TestUnknownRouteUsesStandardErrorShape(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	resp, err := app.Test(httptestRequest("GET", "/nope", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out errorResponse
	decodeBody(t, resp, &out)
	assert.False(t, out.Success)
	assert.Equal(t, "resource not found", out.Error)
}

package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medscan-ai/medscan/constants"
	"github.com/medscan-ai/medscan/internal/document"
	"github.com/medscan-ai/medscan/internal/pipeline"
	"github.com/medscan-ai/medscan/internal/prompt"
)

type analysisResponse struct {
	Success  bool                    `json:"success"`
	Analysis pipeline.AnalysisResult `json:"analysis"`
}

type translationResponse struct {
	Success     bool   `json:"success"`
	Translation string `json:"translation"`
}

type symptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

type translateRequest struct {
	Text string `json:"text"`
}

type medicineRequest struct {
	Medicine string         `json:"medicine"`
	Dosage   prompt.Dosage  `json:"dosage"`
	Patient  prompt.Patient `json:"patient"`
}

// RegisterRoutes attaches the analysis endpoints to the provided Fiber app.
// Handlers stay thin: shape checks here, pipeline semantics in the processor.
func RegisterRoutes(app *fiber.App, proc *pipeline.Processor, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	medicineSchema := prompt.BuildMedicineJSONSchema()

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Upload a scanned report (multipart/form-data, field name: file).
	app.Post("/upload", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file part")
		}
		if fh.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, "No selected file")
		}
		if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
			return writeError(c, fiber.StatusBadRequest, "Invalid file type")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		data, err := io.ReadAll(f)
		if cerr := f.Close(); cerr != nil {
			logger.Warn("upload.close_error", "error", cerr)
		}
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot read uploaded file")
		}

		doc := document.New(fh.Filename, data)
		if !doc.IsSupported() {
			return writeError(c, fiber.StatusBadRequest, "Invalid file type")
		}

		return respondAnalysis(c, proc.AnalyzeDocument(c.UserContext(), doc))
	})

	app.Post("/analyze-symptoms", func(c *fiber.Ctx) error {
		var req symptomsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "No symptoms provided")
		}
		if strings.TrimSpace(req.Symptoms) == "" {
			return writeError(c, fiber.StatusBadRequest, "Symptoms cannot be empty")
		}

		return respondAnalysis(c, proc.AnalyzeSymptoms(c.UserContext(), req.Symptoms))
	})

	app.Post("/analyze-medicine", func(c *fiber.Ctx) error {
		body := c.Body()
		if err := prompt.ValidateJSONAgainstSchema(medicineSchema, body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Missing or invalid medicine information")
		}
		var req medicineRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Missing or invalid medicine information")
		}

		return respondAnalysis(c, proc.AnalyzeMedicine(c.UserContext(), req.Medicine, req.Dosage, req.Patient))
	})

	app.Post("/translate", func(c *fiber.Ctx) error {
		var req translateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "No text provided")
		}
		if strings.TrimSpace(req.Text) == "" {
			return writeError(c, fiber.StatusBadRequest, "Text cannot be empty")
		}

		return c.JSON(translationResponse{
			Success:     true,
			Translation: proc.Translate(c.UserContext(), req.Text),
		})
	})
}

// respondAnalysis maps a pipeline result onto the wire: validation failures
// are the caller's fault (400), model failures are downstream (500).
func respondAnalysis(c *fiber.Ctx, res pipeline.AnalysisResult) error {
	if res.Failed() {
		status := fiber.StatusInternalServerError
		if res.Kind == pipeline.FailureValidation {
			status = fiber.StatusBadRequest
		}
		return writeError(c, status, res.Error)
	}
	return c.JSON(analysisResponse{Success: true, Analysis: res})
}

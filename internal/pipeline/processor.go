package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/medscan-ai/medscan/internal/document"
	"github.com/medscan-ai/medscan/internal/llm"
	"github.com/medscan-ai/medscan/internal/prompt"
)

// Reference links appended to successful symptom and medicine analyses.
const (
	medlineGeneralSuffix = "\n\nFor more detailed medical information, please visit: https://medlineplus.gov/"
	medlineDrugSuffix    = "\n\nFor more detailed medical information, please visit: https://medlineplus.gov/druginformation.html"
)

// TextExtractor is the extraction capability the document path depends on.
// It returns only strings: extraction failures arrive as error-message text.
type TextExtractor interface {
	Extract(ctx context.Context, doc document.Document) string
}

// TextTranslator is the on-demand translation stage.
type TextTranslator interface {
	Translate(ctx context.Context, text string) string
}

// Processor sequences extraction, prompt building, and the model call for a
// single request. It holds no per-request state; every method is safe for
// concurrent use.
type Processor struct {
	Logger     *slog.Logger
	Extractor  TextExtractor
	Completer  llm.Completer
	Translator TextTranslator
}

func NewProcessor(logger *slog.Logger, ex TextExtractor, completer llm.Completer, tr TextTranslator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extractor: ex, Completer: completer, Translator: tr}
}

// AnalyzeDocument runs the document path: classify, extract, then report
// analysis. An extraction failure does not stop the pipeline; its message
// flows forward as report content.
func (p *Processor) AnalyzeDocument(ctx context.Context, doc document.Document) AnalysisResult {
	rid := uuid.New().String()

	if !doc.IsSupported() {
		p.Logger.Warn("pipeline.validate.failed", "req_id", rid, "filename", doc.Filename)
		return failure(FailureValidation, "Invalid file type")
	}

	text := p.Extractor.Extract(ctx, doc)
	if looksLikeExtractionError(text) {
		p.Logger.Warn("pipeline.extract.degraded",
			"req_id", rid,
			"filename", doc.Filename,
			"message", text,
		)
	} else {
		p.Logger.Info("pipeline.extract.ok",
			"req_id", rid,
			"filename", doc.Filename,
			"text_len", len(text),
		)
	}

	return p.run(ctx, rid, prompt.Report(text), "")
}

// AnalyzeSymptoms runs the symptom triage path on user-supplied text.
func (p *Processor) AnalyzeSymptoms(ctx context.Context, symptoms string) AnalysisResult {
	return p.run(ctx, uuid.New().String(), prompt.Symptoms(symptoms), medlineGeneralSuffix)
}

// AnalyzeMedicine runs the dosage review path.
func (p *Processor) AnalyzeMedicine(ctx context.Context, name string, dosage prompt.Dosage, patient prompt.Patient) AnalysisResult {
	return p.run(ctx, uuid.New().String(), prompt.Medicine(name, dosage, patient), medlineDrugSuffix)
}

// Translate is a sibling stage invoked on already-produced text, either the
// original input or a prior analysis. It always returns some text.
func (p *Processor) Translate(ctx context.Context, text string) string {
	return p.Translator.Translate(ctx, text)
}

// run builds the prompt and calls the model. Validation failures stop the
// pipeline before any I/O; model failures are the only downstream errors
// surfaced as a failed result. The suffix is applied on success only.
func (p *Processor) run(ctx context.Context, rid string, req prompt.Request, suffix string) AnalysisResult {
	promptText, err := prompt.Build(req)
	if err != nil {
		p.Logger.Warn("pipeline.validate.failed", "req_id", rid, "kind", string(req.Kind), "error", err)
		return failure(FailureValidation, err.Error())
	}
	p.Logger.Debug("pipeline.prompt.ok", "req_id", rid, "kind", string(req.Kind), "prompt_len", len(promptText))

	english, err := p.Completer.Complete(ctx, promptText)
	if err != nil {
		p.Logger.Error("pipeline.model.failed",
			"req_id", rid,
			"kind", string(req.Kind),
			"model_error_kind", string(llm.KindOf(err)),
			"error", err,
		)
		return failure(FailureModel, modelFailureMessage(req.Kind, err))
	}

	p.Logger.Info("pipeline.completed", "req_id", rid, "kind", string(req.Kind), "response_len", len(english))
	return success(english + suffix)
}

// modelFailureMessage renders a model failure for the client. The refused
// message already names the remedy and is passed through untouched; every
// other failure is prefixed with the analysis path it interrupted.
func modelFailureMessage(kind prompt.Kind, err error) string {
	if llm.KindOf(err) == llm.ConnectionRefused {
		return err.Error()
	}
	return fmt.Sprintf("Error analyzing %s: %v", kind, err)
}

// looksLikeExtractionError matches the extractor's errors-as-text encoding.
func looksLikeExtractionError(text string) bool {
	return strings.HasPrefix(text, "Error:") || strings.HasPrefix(text, "Error extracting text")
}

package translate

import (
	"context"
	"log/slog"
	"strings"
)

// NothingToTranslate is the sentinel for empty input. It is a normal result,
// not an error.
const NothingToTranslate = "No text to translate"

// LineTranslator translates one line of text into the target language.
type LineTranslator interface {
	TranslateLine(ctx context.Context, line, targetLang string) (string, error)
}

// Translator translates multi-paragraph text while preserving its exact
// paragraph and line structure. A paragraph is a run of text delimited by a
// blank line ("\n\n"); lines split on single newlines.
type Translator struct {
	lines      LineTranslator
	targetLang string
	logger     *slog.Logger
}

func NewTranslator(lines LineTranslator, targetLang string, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	if targetLang == "" {
		targetLang = "bn"
	}
	return &Translator{lines: lines, targetLang: targetLang, logger: logger}
}

// Translate returns the translated text, or the input unchanged if the
// subsystem fails wholesale. A single line's failure falls back to that
// line's original text and never aborts sibling lines or paragraphs.
func (t *Translator) Translate(ctx context.Context, text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("translate.panic", "recovered", r)
			out = text
		}
	}()

	if text == "" {
		return NothingToTranslate
	}

	paragraphs := strings.Split(text, "\n\n")
	translated := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			translated = append(translated, paragraph)
			continue
		}
		translated = append(translated, t.translateParagraph(ctx, paragraph))
	}

	return strings.Join(translated, "\n\n")
}

func (t *Translator) translateParagraph(ctx context.Context, paragraph string) string {
	lines := strings.Split(paragraph, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			result = append(result, line)
			continue
		}
		translated, err := t.lines.TranslateLine(ctx, line, t.targetLang)
		if err != nil || translated == "" {
			// Keep the original text when a single line fails.
			t.logger.Warn("translate.line_failed", "line_len", len(line), "error", err)
			result = append(result, line)
			continue
		}
		result = append(result, translated)
	}

	return strings.Join(result, "\n")
}

package pipeline

// FailureKind tells the transport layer how to map a failed result.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureModel      FailureKind = "model"
)

// AnalysisResult is the uniform outcome of an analysis path. Bangla is nil
// right after analysis; it is only populated by a later, independent
// translation call. A result is never partially successful.
type AnalysisResult struct {
	English string  `json:"english,omitempty"`
	Bangla  *string `json:"bangla,omitempty"`
	Error   string  `json:"error,omitempty"`

	// Kind is transport guidance (400 vs 500), not part of the payload.
	Kind FailureKind `json:"-"`
}

// Failed reports whether the result carries an error instead of an analysis.
func (r AnalysisResult) Failed() bool {
	return r.Error != ""
}

func success(english string) AnalysisResult {
	return AnalysisResult{English: english}
}

func failure(kind FailureKind, message string) AnalysisResult {
	return AnalysisResult{Error: message, Kind: kind}
}

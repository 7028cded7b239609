package prompt

import (
	"fmt"
	"strings"

	"github.com/medscan-ai/medscan/internal/common"
)

// Kind tags which analysis template a Request renders.
type Kind string

const (
	KindReport   Kind = "report"
	KindSymptoms Kind = "symptoms"
	KindMedicine Kind = "medicine"
)

// Genders enumerates accepted patient gender values.
var Genders = []string{"male", "female", "other"}

// Dosage holds tablet counts per time slot. All three slots must be present
// and non-negative; zero slots are omitted from the rendered clause.
type Dosage struct {
	Morning int `json:"morning"`
	Evening int `json:"evening"`
	Night   int `json:"night"`
}

// Patient carries the demographic context for a medicine review.
type Patient struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Request is a tagged variant: exactly one of report, symptoms, or medicine.
// The kind determines which template and validation rules apply.
type Request struct {
	Kind     Kind
	Text     string // report content or symptom description
	Medicine string
	Dosage   Dosage
	Patient  Patient
}

func Report(text string) Request {
	return Request{Kind: KindReport, Text: text}
}

func Symptoms(text string) Request {
	return Request{Kind: KindSymptoms, Text: text}
}

func Medicine(name string, dosage Dosage, patient Patient) Request {
	return Request{Kind: KindMedicine, Medicine: name, Dosage: dosage, Patient: patient}
}

// Validate checks the variant's input shape before any remote call is made.
func (r Request) Validate() error {
	v := common.NewValidator()
	switch r.Kind {
	case KindReport:
		v.Field("text", r.Text, common.Required)
	case KindSymptoms:
		v.Field("symptoms", r.Text, common.Required)
	case KindMedicine:
		v.Field("medicine", r.Medicine, common.Required)
		v.Field("dosage.morning", r.Dosage.Morning, common.NonNegativeInt)
		v.Field("dosage.evening", r.Dosage.Evening, common.NonNegativeInt)
		v.Field("dosage.night", r.Dosage.Night, common.NonNegativeInt)
		v.Field("patient.age", r.Patient.Age, common.PositiveInt)
		v.Field("patient.gender", r.Patient.Gender, common.OneOf(Genders...))
	default:
		return common.ValidationErrorf("unknown request kind: %q", r.Kind)
	}
	return v.Error()
}

// Build validates the request and renders its template into a model-ready
// prompt string.
func Build(r Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	switch r.Kind {
	case KindReport:
		return buildReport(r.Text), nil
	case KindSymptoms:
		return buildSymptoms(r.Text), nil
	default:
		return buildMedicine(r.Medicine, r.Dosage, r.Patient), nil
	}
}

// Format renders the dosage as a human-readable clause, omitting zero slots:
// "1 tablet(s) in the morning, 2 tablet(s) at night".
func (d Dosage) Format() string {
	var parts []string
	if d.Morning > 0 {
		parts = append(parts, fmt.Sprintf("%d tablet(s) in the morning", d.Morning))
	}
	if d.Evening > 0 {
		parts = append(parts, fmt.Sprintf("%d tablet(s) in the evening", d.Evening))
	}
	if d.Night > 0 {
		parts = append(parts, fmt.Sprintf("%d tablet(s) at night", d.Night))
	}
	return strings.Join(parts, ", ")
}

func buildReport(text string) string {
	return `You are a medical report analyzer. Your task is to:
1. Analyze the given medical test results
2. Provide a simple explanation of what each test result means for overall health
3. Provide practical health suggestions based on the results
4. Format your response in clear sections

Here is the medical report to analyze:

` + text
}

func buildSymptoms(symptoms string) string {
	return `You are a medical advisor. Based on the following symptoms, please:
1. Analyze the symptoms and provide potential conditions
2. Rate the urgency level (Low/Medium/High)
3. Suggest immediate steps or precautions
4. Recommend when to seek professional medical help

Please note this is for informational purposes only and not a substitute for professional medical advice.

Symptoms:
` + symptoms
}

func buildMedicine(name string, dosage Dosage, patient Patient) string {
	return fmt.Sprintf(`You are a medical information advisor. Please analyze the following medicine and dosage for a specific patient:

Patient Information:
- Age: %d years old
- Gender: %s

Medicine Name: %s
Current Dosage: %s

Please provide the following information, taking into account the patient's age and gender:
1. What is this medicine primarily used for? List all common uses.
2. What are the common side effects? List them from most common to severe, noting any specific concerns for this patient's age/gender group.
3. What is the manufacturer's recommended dosage? Compare with the current dosage and note any age/gender-specific dosing considerations.
4. Are there any specific precautions or warnings for this patient's demographic?
5. What drug interactions should be considered?
6. When should someone seek medical attention while taking this medicine?
7. Are there any special considerations or additional monitoring needed for this patient's age/gender group?

Base your analysis on reliable medical sources and standard pharmaceutical information. Include any relevant warnings or disclaimers.`,
		patient.Age, patient.Gender, name, dosage.Format())
}

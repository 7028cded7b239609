package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedicineSchemaValidation(t *testing.T) {
	schema := BuildMedicineJSONSchema()

	valid := []byte(`{
		"medicine": "Paracetamol",
		"dosage": {"morning": 1, "evening": 0, "night": 2},
		"patient": {"age": 42, "gender": "female"}
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, valid))

	tests := []struct {
		name string
		body string
	}{
		{"missing dosage slot", `{"medicine":"A","dosage":{"morning":1,"evening":0},"patient":{"age":30,"gender":"male"}}`},
		{"negative slot", `{"medicine":"A","dosage":{"morning":-1,"evening":0,"night":0},"patient":{"age":30,"gender":"male"}}`},
		{"fractional slot", `{"medicine":"A","dosage":{"morning":1.5,"evening":0,"night":0},"patient":{"age":30,"gender":"male"}}`},
		{"zero age", `{"medicine":"A","dosage":{"morning":1,"evening":0,"night":0},"patient":{"age":0,"gender":"male"}}`},
		{"bad gender", `{"medicine":"A","dosage":{"morning":1,"evening":0,"night":0},"patient":{"age":30,"gender":"x"}}`},
		{"empty medicine", `{"medicine":"","dosage":{"morning":1,"evening":0,"night":0},"patient":{"age":30,"gender":"male"}}`},
		{"missing patient", `{"medicine":"A","dosage":{"morning":1,"evening":0,"night":0}}`},
		{"not json", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(tt.body)))
		})
	}
}

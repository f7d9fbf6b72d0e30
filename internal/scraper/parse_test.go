package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobFields_SurroundingCommentary(t *testing.T) {
	text := "Here you go:\n{\"company\":\"Acme\",\"role\":\"Engineer\",\"requirements\":[\"Go\"]}\nThanks!"

	posting, err := ParseJobFields(text)
	require.NoError(t, err)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "Engineer", posting.Role)
	assert.Equal(t, []string{"Go"}, posting.Requirements)
	assert.Equal(t, []string{}, posting.Responsibilities)
}

func TestParseJobFields_NumericSalary(t *testing.T) {
	text := "Here you go:\n{\"company\":\"Acme\",\"role\":\"Engineer\",\"salary\":120000,\"requirements\":[\"Go\"]}\nThanks!"

	posting, err := ParseJobFields(text)
	require.NoError(t, err)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "120000", posting.Salary)
	assert.Equal(t, []string{"Go"}, posting.Requirements)
}

func TestParseJobFields_StrictAndFenced(t *testing.T) {
	for _, text := range []string{
		`{"company":"Acme","role":"SRE"}`,
		"```json\n{\"company\":\"Acme\",\"role\":\"SRE\"}\n```",
	} {
		posting, err := ParseJobFields(text)
		require.NoError(t, err, text)
		assert.Equal(t, "Acme", posting.Company)
		assert.Equal(t, "SRE", posting.Role)
	}
}

func TestParseJobFields_LongFormKeys(t *testing.T) {
	text := `{"company":"Acme","role":"SRE","description of the role":"Keep it up","key responsibilities":["On-call"]}`

	posting, err := ParseJobFields(text)
	require.NoError(t, err)
	assert.Equal(t, "Keep it up", posting.Description)
	assert.Equal(t, []string{"On-call"}, posting.Responsibilities)
}

func TestParseJobFields_Failures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		details string
	}{
		{"no json", "I could not find a job posting on this page.", "no JSON object found"},
		{"broken json", `Result: {"company": "Acme", }`, "validation failed"},
		{"wrong types", `{"company":"Acme","requirements":"Go and SQL"}`, "requirements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posting, err := ParseJobFields(tt.text)
			assert.Nil(t, posting)

			var extractErr *ExtractionError
			require.ErrorAs(t, err, &extractErr)
			assert.Contains(t, extractErr.Details, tt.details)
			assert.Equal(t, tt.text, extractErr.Raw)
		})
	}
}

func TestExtractionResponse(t *testing.T) {
	posting, payload := ExtractionResponse(`{"company":"Acme","role":"Engineer"}`)
	require.NotNil(t, posting)
	assert.Nil(t, payload)

	posting, payload = ExtractionResponse("nothing useful")
	assert.Nil(t, posting)
	require.NotNil(t, payload)
	assert.Equal(t, "Extraction failed", payload.Error)
	assert.NotEmpty(t, payload.Details)
}

package llm

import (
	"fmt"
	"strings"
)

// FieldKind is the JSON shape of an extracted field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldList
)

// ExtractionField is one key of the JSON object the model must return.
type ExtractionField struct {
	Name string
	Kind FieldKind
	Hint string
}

// ExtractionSchema describes a structured extraction: a role preamble and the
// fields of the object the model returns.
type ExtractionSchema struct {
	Name     string
	Preamble string
	Fields   []ExtractionField
}

func textField(name, hint string) ExtractionField {
	return ExtractionField{Name: name, Kind: FieldText, Hint: hint}
}
func listField(name, hint string) ExtractionField {
	return ExtractionField{Name: name, Kind: FieldList, Hint: hint}
}

// template renders an empty instance of the object, one key per line, with
// the hint as a trailing comment.
func (s ExtractionSchema) template() string {
	lines := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		zero := `""`
		if f.Kind == FieldList {
			zero = `[]`
		}
		sep := ","
		if i == len(s.Fields)-1 {
			sep = ""
		}
		lines[i] = fmt.Sprintf("  %q: %s%s", f.Name, zero, sep)
		if f.Hint != "" {
			lines[i] += "  // " + f.Hint
		}
	}
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

// BuildExtractionPrompt asks the model to fill schema from input. Every key
// must be present; unknown values stay empty.
func BuildExtractionPrompt(schema ExtractionSchema, input string) string {
	return strings.Join([]string{
		schema.Preamble,
		"Fill in this JSON object. Keep every key; leave a value empty when the text does not mention it:\n" + schema.template(),
		"Copy facts from the text without inventing any. Return ONLY the JSON object, with no markdown fences or commentary.",
		"Text:\n\"\"\"\n" + input + "\n\"\"\"",
	}, "\n\n") + "\n"
}

// JobPostingSchema extracts the fields of types.JobPosting.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:     "JobPosting",
		Preamble: "You are a helpful assistant specialized in parsing job postings.",
		Fields: []ExtractionField{
			textField("company", "hiring company"),
			textField("role", "job title"),
			textField("location", "office location or remote policy"),
			textField("salary", "compensation as written"),
			textField("description", "description of the role"),
			listField("responsibilities", "one responsibility per item"),
			listField("requirements", "one requirement or qualification per item"),
		},
	}
}

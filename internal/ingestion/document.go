package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxDocumentBytes bounds the size of a single uploaded document.
const MaxDocumentBytes = 20 << 20

// ExtractError reports a document that could not be turned into text.
type ExtractError struct {
	Name    string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot read %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("cannot read %s: %s", e.Name, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// Format is the detected document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// DetectFormat decides between PDF and text by extension, then by the PDF magic bytes.
func DetectFormat(name string, data []byte) Format {
	if strings.EqualFold(filepath.Ext(name), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF
	}
	return FormatText
}

// ExtractText returns the cleaned text of an uploaded document.
// PDFs are read page by page; anything else must be valid UTF-8 text.
func ExtractText(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractError{Name: name, Message: "empty document"}
	}
	if len(data) > MaxDocumentBytes {
		return "", &ExtractError{Name: name, Message: fmt.Sprintf("document larger than %d bytes", MaxDocumentBytes)}
	}

	var raw string
	switch DetectFormat(name, data) {
	case FormatPDF:
		text, err := pdfText(data)
		if err != nil {
			return "", &ExtractError{Name: name, Message: "invalid PDF", Cause: err}
		}
		raw = text
	default:
		if !utf8.Valid(data) {
			return "", &ExtractError{Name: name, Message: "not UTF-8 text"}
		}
		raw = string(data)
	}

	text := CleanText(raw)
	if text == "" {
		return "", &ExtractError{Name: name, Message: "no text content"}
	}
	return text, nil
}

// pdfText concatenates the plain text of every page.
// The pdf reader panics on some malformed inputs, so panics are turned into errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

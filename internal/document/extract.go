// Package document extracts plain text from uploaded resume files.
package document

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"

	"foliogen/internal/errors"

	"github.com/ledongthuc/pdf"
)

// Format identifies a supported resume file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// FormatFromFilename maps a file name to its resume format
func FormatFromFilename(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return FormatPDF, nil
	case strings.HasSuffix(lower, ".docx"):
		return FormatDOCX, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"unsupported file format: only pdf and docx are allowed", nil).
			WithContext("filename", name)
	}
}

// ContentType returns the MIME type used when storing the original file
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Extension returns the file extension without the leading dot
func (f Format) Extension() string {
	return string(f)
}

// ExtractText extracts the plain text content of a resume document.
// There is no partial recovery: any parse failure fails the whole extraction.
func ExtractText(format Format, data []byte) (string, error) {
	var text string
	var err error

	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"unsupported file format", nil).WithContext("format", string(format))
	}

	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return "", appErr
		}
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			"failed to extract text from document", err).
			WithContext("format", string(format))
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			"document contains no extractable text", nil).
			WithContext("format", string(format))
	}

	return text, nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}

	return normalizeWhitespace(buf.String()), nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", err
			}
			break
		}
	}

	if len(docXML) == 0 {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			"no word/document.xml entry in docx archive", nil)
	}

	content := string(docXML)
	// Paragraph boundaries become newlines before tags are stripped
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = xmlTags.ReplaceAllString(content, " ")

	return normalizeWhitespace(content), nil
}

var horizontalSpace = regexp.MustCompile(`[ \t\r\f\v]+`)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = horizontalSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

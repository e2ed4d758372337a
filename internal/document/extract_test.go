package document

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"foliogen/internal/errors"
)

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
		wantErr  bool
	}{
		{"pdf lowercase", "resume.pdf", FormatPDF, false},
		{"pdf uppercase", "RESUME.PDF", FormatPDF, false},
		{"docx", "cv.docx", FormatDOCX, false},
		{"docx mixed case", "cv.DocX", FormatDOCX, false},
		{"doc rejected", "cv.doc", "", true},
		{"txt rejected", "notes.txt", "", true},
		{"no extension", "resume", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatFromFilename(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.filename)
				}
				appErr, ok := err.(*errors.AppError)
				if !ok || appErr.Code != errors.ErrCodeInvalidFormat {
					t.Errorf("expected INVALID_FORMAT error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got format %q, want %q", got, tt.want)
			}
		})
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDOCX(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior   Engineer</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`<w:p><w:r><w:t>Go, Postgres</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := ExtractText(FormatDOCX, buildDocx(t, doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "Jane Doe" {
		t.Errorf("line 0 = %q, want %q", lines[0], "Jane Doe")
	}
	if lines[1] != "Senior Engineer" {
		t.Errorf("line 1 = %q, want collapsed whitespace %q", lines[1], "Senior Engineer")
	}
	if lines[2] != "Go, Postgres" {
		t.Errorf("line 2 = %q, want %q", lines[2], "Go, Postgres")
	}
}

func TestExtractTextDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	if _, err := w.Write([]byte("<w:styles/>")); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	_, err := ExtractText(FormatDOCX, buf.Bytes())
	if err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeExtractionFailed {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtractTextCorruptInput(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   []byte
	}{
		{"pdf garbage", FormatPDF, []byte("this is not a pdf")},
		{"docx garbage", FormatDOCX, []byte("this is not a zip archive")},
		{"pdf empty", FormatPDF, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.format, tt.data)
			if err == nil {
				t.Fatal("expected error for corrupt input")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeExtractionFailed {
				t.Errorf("expected EXTRACTION_FAILED, got %s", appErr.Code)
			}
		})
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText(Format("rtf"), []byte("{\\rtf1}"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	if got := FormatPDF.ContentType(); got != "application/pdf" {
		t.Errorf("pdf content type = %q", got)
	}
	if got := FormatDOCX.ContentType(); !strings.Contains(got, "wordprocessingml") {
		t.Errorf("docx content type = %q", got)
	}
}

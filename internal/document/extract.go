// Package document extracts plain text from uploaded resumes and exported
// profile PDFs. Only PDF and DOCX are supported.
package document

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"hirelens/internal/common/errors"
)

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// ExtractText reads a document from disk and returns its text content.
// Missing files and unknown extensions are fatal contract errors.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewFileNotFoundError(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		return "", errors.NewUnsupportedFormatError(filepath.Ext(path))
	}
}

func extractPDF(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewFileNotFoundError(path)
	}

	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", errors.NewCVExtractionFailedError(err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", errors.NewCVExtractionFailedError(err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

func extractDOCX(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", errors.NewCVExtractionFailedError(err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	// GetContent returns the document XML; strip markup down to text runs.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	text := docxTagPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(text), nil
}

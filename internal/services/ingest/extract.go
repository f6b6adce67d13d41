// File: internal/services/ingest/extract.go
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// probed reports whether an extension gets a text-extraction probe.
// Legacy .doc is exempt: its binary format has no cheap text path, so
// allow-set membership plus detection match is the whole check.
func probed(ext string) bool {
	switch ext {
	case ".pdf", ".docx", ".txt", ".md":
		return true
	}
	return false
}

// ExtractText pulls the plain text out of a parseable document. It is
// used as an upload probe: a file of an allowed type that yields no
// text is rejected rather than stored.
func ExtractText(ext string, data []byte) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".txt":
		return extractTXT(data)
	case ".md":
		return extractMarkdown(data)
	default:
		return "", NewExtractionError("extract", fmt.Sprintf("unsupported file type for text extraction: %s", ext), nil)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", NewExtractionError("extract_pdf", "no text extracted from PDF", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip problematic pages instead of failing entirely
			continue
		}
		b.WriteString(pageText)
		b.WriteByte(' ')
	}

	out := normalizeText(b.String())
	if out == "" {
		return "", NewExtractionError("extract_pdf", "no text extracted from PDF", nil)
	}
	return out, nil
}

// docx is a zip archive; the prose lives in w:t runs inside
// word/document.xml.
func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", NewExtractionError("extract_docx", "no text extracted from DOCX", err)
	}

	var document *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", NewExtractionError("extract_docx", "no text extracted from DOCX", fmt.Errorf("word/document.xml missing"))
	}

	rc, err := document.Open()
	if err != nil {
		return "", NewExtractionError("extract_docx", "no text extracted from DOCX", err)
	}
	defer rc.Close()

	out, err := wordRunText(rc)
	if err != nil {
		return "", NewExtractionError("extract_docx", "no text extracted from DOCX", err)
	}
	if out == "" {
		return "", NewExtractionError("extract_docx", "no text extracted from DOCX", nil)
	}
	return out, nil
}

func wordRunText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	depth := 0 // nesting depth inside <w:t> elements

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := token.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				depth++
			}
		case xml.EndElement:
			if el.Name.Local == "t" && depth > 0 {
				depth--
				b.WriteByte(' ')
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(el)
			}
		}
	}
	return normalizeText(b.String()), nil
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", NewExtractionError("extract_txt", "file is not valid UTF-8 text", nil)
	}
	out := normalizeText(string(data))
	if out == "" {
		return "", NewExtractionError("extract_txt", "no text extracted from TXT", nil)
	}
	return out, nil
}

// Markdown goes through the goldmark AST so markup carrying no prose
// (bare fences, rules, reference definitions) is rejected like any
// other empty file.
func extractMarkdown(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", NewExtractionError("extract_md", "file is not valid UTF-8 text", nil)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(data))
	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(data))
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", NewExtractionError("extract_md", "no text extracted from Markdown", err)
	}

	out := normalizeText(b.String())
	if out == "" {
		return "", NewExtractionError("extract_md", "no text extracted from Markdown", nil)
	}
	return out, nil
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", " ")
	s = strings.ToValidUTF8(s, "")
	return strings.Join(strings.Fields(s), " ")
}

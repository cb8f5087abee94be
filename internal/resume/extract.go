package resume

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/abhisek/careerpilot/internal/apperr"
)

// Supported upload types.
const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MinTextLen is the shortest extracted text accepted as a resume.
const MinTextLen = 20

var extMimes = map[string]string{
	".txt":  MimeText,
	".md":   MimeText,
	".pdf":  MimePDF,
	".docx": MimeDOCX,
}

// DetectMime returns mime with parameters dropped, or the type implied by
// the file extension when mime is empty or generic.
func DetectMime(fileName, mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))
	if mime != "" && mime != "application/octet-stream" {
		return mime
	}
	return extMimes[strings.ToLower(filepath.Ext(fileName))]
}

// ExtractText returns the readable text of a resume file.
func ExtractText(mime string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch mime {
	case MimeText:
		if !utf8.Valid(data) {
			return "", apperr.Invalid("file", "text file is not valid UTF-8")
		}
		text = string(data)
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", apperr.Invalid("file", "unsupported file type %q", mime)
	}
	if err != nil {
		return "", apperr.Invalid("file", "%v", err)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextLen {
		return "", apperr.Invalid("file", "no readable text found")
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()
	return docxText(doc.Editable().GetContent()), nil
}

var (
	docxBreak = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	xmlTag    = regexp.MustCompile(`<[^>]*>`)
	blankRuns = regexp.MustCompile(`[ \t]+`)
	blankRows = regexp.MustCompile(`\n{3,}`)
)

// docxText reduces WordprocessingML to paragraphs of plain text.
func docxText(xml string) string {
	s := docxBreak.ReplaceAllStringFunc(xml, func(m string) string {
		if strings.HasPrefix(m, "<w:tab") {
			return " "
		}
		return "\n"
	})
	s = xmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankRuns.ReplaceAllString(s, " ")
	s = blankRows.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

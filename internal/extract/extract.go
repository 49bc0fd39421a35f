// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// Text extracts the readable text of a document. Whitespace-only output is
// returned as is; callers decide whether that counts as empty.
func Text(mime string, data []byte) (string, error) {
	switch normalizeMime(mime) {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return pdfText(data)
	case MimeDocx:
		return docxText(data)
	default:
		return "", errors.Wrapf(ErrUnsupportedType, "%q", mime)
	}
}

// MimeFromFilename guesses the MIME type from a file extension. Unknown
// extensions give an empty string.
func MimeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return MimeText
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDocx
	default:
		return ""
	}
}

// normalizeMime drops parameters such as "; charset=utf-8".
func normalizeMime(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to read pdf")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read pdf page %d", i)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse docx")
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

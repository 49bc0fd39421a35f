package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestTextPlain(t *testing.T) {
	text, err := Text("text/plain; charset=utf-8", []byte("Go, Kubernetes"))
	require.NoError(t, err)
	assert.Equal(t, "Go, Kubernetes", text)
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, "Senior Go engineer with PostgreSQL")

	text, err := Text(MimeDocx, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go engineer with PostgreSQL")
}

func TestTextRejectsCorruptFiles(t *testing.T) {
	_, err := Text(MimePDF, []byte("not a pdf"))
	assert.Error(t, err)

	_, err = Text(MimeDocx, []byte("not a zip"))
	assert.Error(t, err)
}

func TestTextUnsupportedType(t *testing.T) {
	_, err := Text("image/png", []byte{0x89, 0x50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestMimeFromFilename(t *testing.T) {
	tests := map[string]string{
		"resume.pdf":   MimePDF,
		"RESUME.PDF":   MimePDF,
		"cv.docx":      MimeDocx,
		"notes.txt":    MimeText,
		"jd.md":        MimeText,
		"photo.png":    "",
		"no-extension": "",
	}
	for name, want := range tests {
		assert.Equal(t, want, MimeFromFilename(name), name)
	}
}

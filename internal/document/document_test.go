package document

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane </w:t></w:r><w:r><w:t>Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go &amp; Kafka</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": documentRels,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestDecodePlainText(t *testing.T) {
	t.Parallel()

	text, err := Decode("resume.txt", []byte("Jane Doe\nGo, Kafka"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo, Kafka", text)
}

func TestDecodeDropsInvalidUTF8(t *testing.T) {
	t.Parallel()

	text, err := Decode("resume.txt", []byte("Jane\xff Doe"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
}

func TestDecodeDocx(t *testing.T) {
	t.Parallel()

	text, err := Decode("resume.docx", buildDocx(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\n")
	assert.Contains(t, text, "Skills:\tGo & Kafka\n")
}

func TestDocxText(t *testing.T) {
	t.Parallel()

	got := docxText(`<w:p><w:r><w:t>a</w:t></w:r><w:r><w:br/><w:t>b&lt;c</w:t></w:r></w:p><w:p/>`)
	assert.Equal(t, "a\nb<c\n", got)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		data []byte
		opts []Option
		want error
	}{
		{name: "empty", file: "resume.pdf", data: nil, want: ErrEmpty},
		{name: "whitespace only", file: "resume.txt", data: []byte(" \n\t "), want: ErrEmpty},
		{name: "too large", file: "resume.txt", data: []byte("0123456789"), opts: []Option{WithMaxSize(5)}, want: ErrTooLarge},
		{name: "legacy word", file: "resume.doc", data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, want: ErrUnsupportedType},
		{name: "image", file: "resume.png", data: []byte("\x89PNG\r\n\x1a\n0000"), want: ErrUnsupportedType},
		{name: "docx extension without zip", file: "resume.docx", data: []byte("plain"), want: ErrUnsupportedType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.file, tt.data, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeMalformedPDF(t *testing.T) {
	t.Parallel()

	_, err := Decode("resume.pdf", []byte("%PDF-1.4\nnot really a pdf"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pdf"))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	kind, err := Detect("upload", []byte("%PDF-1.7 ..."))
	require.NoError(t, err)
	assert.Equal(t, KindPDF, kind)

	kind, err = Detect("cv.docx", buildDocx(t))
	require.NoError(t, err)
	assert.Equal(t, KindDOCX, kind)

	kind, err = Detect("notes", []byte("plain words"))
	require.NoError(t, err)
	assert.Equal(t, KindText, kind)
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe"), 0o600))

	text, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)

	_, err = DecodeFile(path, WithMaxSize(3))
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = DecodeFile(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

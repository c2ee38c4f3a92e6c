package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFormatForExtension verifies the extension to format mapping.
func TestFormatForExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatPDF, FormatForExtension("pdf"))
	require.Equal(t, FormatPDF, FormatForExtension(".PDF"))
	require.Equal(t, FormatDocx, FormatForExtension("docx"))
	require.Equal(t, FormatPlain, FormatForExtension("txt"))
	require.Equal(t, FormatPlain, FormatForExtension("jpg"))
	require.Equal(t, FormatPlain, FormatForExtension(""))
}

// TestPlainTextFallback verifies unknown formats decode bytes as UTF-8.
func TestPlainTextFallback(t *testing.T) {
	t.Parallel()

	text, err := Text("txt", []byte("Hello world"))
	require.NoError(t, err)
	require.Equal(t, "Hello world", text)

	// invalid sequences become the replacement rune
	text, err = Text("bin", []byte{'o', 'k', 0xff, 0xfe})
	require.NoError(t, err)
	require.Equal(t, "ok��", text)
}

// TestDocxText verifies text runs and paragraph breaks are extracted.
func TestDocxText(t *testing.T) {
	t.Parallel()

	docXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>
    <w:p><w:r><w:t>second line</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := Text("docx", buildDocx(t, docXML))
	require.NoError(t, err)
	require.Equal(t, "Hello world\nsecond line", text)
}

// TestDocxTextMalformed verifies non-zip bytes fail the extraction stage.
func TestDocxTextMalformed(t *testing.T) {
	t.Parallel()

	_, err := Text("docx", []byte("not a zip archive"))
	require.Error(t, err)
}

// TestDocxTextMissingDocumentPart verifies archives without the main part fail.
func TestDocxTextMissingDocumentPart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Text("docx", buf.Bytes())
	require.Error(t, err)
	require.Contains(t, err.Error(), "word/document.xml")
}

// TestPDFTextMalformed verifies garbage bytes fail instead of panicking.
func TestPDFTextMalformed(t *testing.T) {
	t.Parallel()

	_, err := Text("pdf", []byte("definitely not a pdf"))
	require.Error(t, err)
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxDocumentPath)
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

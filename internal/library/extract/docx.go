package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
)

const docxDocumentPath = "word/document.xml"

// docxText extracts the text runs of the main document part.
//
// A docx file is a zip archive, the visible text lives in `w:t` elements
// of word/document.xml, paragraphs (`w:p`) become line breaks.
func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "open docx archive")
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == docxDocumentPath {
			document = f
			break
		}
	}
	if document == nil {
		return "", errors.Errorf("docx misses %s", docxDocumentPath)
	}

	rc, err := document.Open()
	if err != nil {
		return "", errors.Wrap(err, "open document part")
	}
	defer func() {
		_ = rc.Close()
	}()

	return readDocumentXML(rc)
}

func readDocumentXML(r io.Reader) (string, error) {
	var (
		sb     strings.Builder
		inText bool
	)

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "parse document xml")
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

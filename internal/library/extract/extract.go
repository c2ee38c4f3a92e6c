// Package extract turns stored file binaries into plain text.
package extract

import (
	"bytes"
	"strings"

	"github.com/Laisky/errors/v2"
)

// Format is the finite set of recognized document formats.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	// FormatPlain is the declared fallback, bytes are decoded as UTF-8.
	FormatPlain Format = "plain"
)

// Extractor converts raw file bytes into plain text.
type Extractor func(data []byte) (string, error)

var extractors = map[Format]Extractor{
	FormatPDF:   pdfText,
	FormatDocx:  docxText,
	FormatPlain: plainText,
}

// FormatForExtension maps a file extension to its extraction format.
func FormatForExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FormatPDF
	case "docx":
		return FormatDocx
	default:
		return FormatPlain
	}
}

// Text extracts plain text from data based on the file extension.
func Text(ext string, data []byte) (string, error) {
	fn, ok := extractors[FormatForExtension(ext)]
	if !ok {
		fn = plainText
	}

	text, err := fn(data)
	if err != nil {
		return "", errors.Wrapf(err, "extract %q text", ext)
	}

	return text, nil
}

// plainText decodes bytes as UTF-8, invalid sequences become U+FFFD.
func plainText(data []byte) (string, error) {
	return string(bytes.ToValidUTF8(data, []byte("�"))), nil
}

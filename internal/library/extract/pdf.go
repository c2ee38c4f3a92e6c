package extract

import (
	"bytes"
	"io"

	"github.com/Laisky/errors/v2"
	pdfLib "github.com/ledongthuc/pdf"
)

// pdfText extracts the text runs of every page.
func pdfText(data []byte) (text string, err error) {
	// the pdf parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdfLib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, plain); err != nil {
		return "", errors.Wrap(err, "copy pdf text")
	}

	return buf.String(), nil
}

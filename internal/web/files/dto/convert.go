package dto

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"

	"github.com/Laisky/storage-manager/internal/web/files/model"
)

// NewFileDocument converts a persisted file record into its wire shape.
func NewFileDocument(file *model.File) (*FileDocument, error) {
	doc := new(FileDocument)
	if err := copier.Copy(doc, file); err != nil {
		return nil, errors.Wrap(err, "copy file record")
	}

	doc.ID = file.ID.Hex()
	doc.CreatedAt = file.CreatedAt.UTC().Format(time.RFC3339)
	doc.UpdatedAt = file.UpdatedAt.UTC().Format(time.RFC3339)
	if doc.SharedWith == nil {
		doc.SharedWith = []string{}
	}

	return doc, nil
}

// Package model defines the data model for the files service.
package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the fixed enumeration of AI-derived document categories.
type Category string

const (
	CategoryReport  Category = "Report"
	CategoryArticle Category = "Article"
	CategoryNote    Category = "Note"
	CategoryOther   Category = "Other"
)

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryReport, CategoryArticle, CategoryNote, CategoryOther:
		return true
	}

	return false
}

// FileType is the coarse classification of an uploaded file.
type FileType string

const (
	FileTypeDocument FileType = "document"
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeOther    FileType = "other"
)

// File is the persisted record for one uploaded file.
//
// Summary, Keywords and Category are either all absent or all present,
// Analysis writes the three fields in one update call.
type File struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	Name         string             `bson:"name" json:"name"`
	Extension    string             `bson:"extension" json:"extension"`
	BucketFileID string             `bson:"bucket_file_id" json:"bucket_file_id"`
	ContentType  string             `bson:"content_type" json:"content_type"`
	Size         int64              `bson:"size" json:"size"`
	Type         FileType           `bson:"type" json:"type"`
	Owner        string             `bson:"owner" json:"owner"`
	SharedWith   []string           `bson:"shared_with" json:"shared_with"`
	Summary      string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Keywords     []string           `bson:"keywords,omitempty" json:"keywords,omitempty"`
	Category     Category           `bson:"category,omitempty" json:"category,omitempty"`
}

var extensionTypes = map[string]FileType{
	"pdf": FileTypeDocument, "doc": FileTypeDocument, "docx": FileTypeDocument,
	"txt": FileTypeDocument, "md": FileTypeDocument, "csv": FileTypeDocument,
	"xls": FileTypeDocument, "xlsx": FileTypeDocument, "rtf": FileTypeDocument,
	"png": FileTypeImage, "jpg": FileTypeImage, "jpeg": FileTypeImage,
	"gif": FileTypeImage, "webp": FileTypeImage, "svg": FileTypeImage,
	"mp4": FileTypeVideo, "mov": FileTypeVideo, "avi": FileTypeVideo,
	"mkv": FileTypeVideo, "webm": FileTypeVideo,
	"mp3": FileTypeAudio, "wav": FileTypeAudio, "flac": FileTypeAudio,
	"ogg": FileTypeAudio, "m4a": FileTypeAudio,
}

// TypeForExtension classifies a file by its extension.
func TypeForExtension(ext string) FileType {
	if t, ok := extensionTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return t
	}

	return FileTypeOther
}

// ExtensionOf returns the lower-cased extension of name without the dot.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}

	return strings.ToLower(name[idx+1:])
}

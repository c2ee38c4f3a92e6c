// Package dto defines request and response payloads for the files API.
package dto

import (
	"strings"

	"github.com/Laisky/storage-manager/internal/web/files/model"
)

// SplitCSV splits a comma-separated input into trimmed non-empty entries.
// First-seen order is preserved, duplicates are kept.
func SplitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// ListFilesFilter carries the normalized optional list filters.
type ListFilesFilter struct {
	Search   string
	Keywords []string
	Category string
	Types    []string
}

// ParseListFilter normalizes the four raw query inputs into a filter.
func ParseListFilter(search, keywordsCSV, category, typesCSV string) ListFilesFilter {
	return ListFilesFilter{
		Search:   search,
		Keywords: SplitCSV(keywordsCSV),
		Category: category,
		Types:    SplitCSV(typesCSV),
	}
}

// FileDocument is the wire representation of one file record.
type FileDocument struct {
	ID           string         `json:"id"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	Name         string         `json:"name"`
	Extension    string         `json:"extension"`
	BucketFileID string         `json:"bucket_file_id"`
	ContentType  string         `json:"content_type"`
	Size         int64          `json:"size"`
	Type         model.FileType `json:"type"`
	Owner        string         `json:"owner"`
	SharedWith   []string       `json:"shared_with"`
	Summary      string         `json:"summary,omitempty"`
	Keywords     []string       `json:"keywords,omitempty"`
	Category     model.Category `json:"category,omitempty"`
}

// ListFilesResponse is the list endpoint payload.
type ListFilesResponse struct {
	Documents []FileDocument `json:"documents"`
}

// ErrorResponse is the generic failure payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ActionKind is the closed set of mutating file actions.
type ActionKind string

const (
	ActionRename  ActionKind = "rename"
	ActionShare   ActionKind = "share"
	ActionUnshare ActionKind = "unshare"
	ActionDelete  ActionKind = "delete"
)

// ActionRequest is one user intent against a single file.
type ActionRequest struct {
	Kind   ActionKind `json:"kind"`
	Name   string     `json:"name,omitempty"`
	Emails []string   `json:"emails,omitempty"`
	Email  string     `json:"email,omitempty"`
}

// ActionResponse reports the post-action state the client needs.
type ActionResponse struct {
	Status     string   `json:"status"`
	SharedWith []string `json:"shared_with,omitempty"`
}

// AnalyzeRequest is the analyze endpoint payload.
type AnalyzeRequest struct {
	FileID string `json:"fileId"`
}

// AnalyzeResponse is the analyze endpoint success payload.
type AnalyzeResponse struct {
	Status   string         `json:"status"`
	Summary  string         `json:"summary"`
	Keywords []string       `json:"keywords"`
	Category model.Category `json:"category"`
}

// AnalyzeErrorResponse is the analyze endpoint failure payload.
type AnalyzeErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// ChangeEvent is one realtime notification about a file document.
type ChangeEvent struct {
	Event  string `json:"event"`
	FileID string `json:"file_id"`
}

const (
	// ChangeEventUpdate marks a document update.
	ChangeEventUpdate = "update"
	// ChangeEventDelete marks a document removal.
	ChangeEventDelete = "delete"
)

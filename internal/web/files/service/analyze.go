package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/storage-manager/internal/library/extract"
	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/model"
)

// analyzeTextLimit bounds how much extracted text is sent to the model,
// longer documents are analyzed on their prefix only.
const analyzeTextLimit = 2000

const analyzeSystemPrompt = "You are a JSON formatter. Respond with valid JSON only."

const analyzeUserPromptTpl = `For the following text:
1) Write a short summary.
2) Return the keywords as an array of strings.
3) Assign one category (Report, Article, Note, Other).

Text:
"""%s"""

RESPOND WITH A SINGLE VALID JSON OBJECT ONLY.
EXAMPLE:
{"summary":"...","keywords":["..."],"category":"..."}`

// analysisResult is the JSON shape the model is instructed to return.
type analysisResult struct {
	Summary  string         `json:"summary"`
	Keywords []string       `json:"keywords"`
	Category model.Category `json:"category"`
}

// Analyze runs the extract-text, prompt, parse, persist pipeline for one file.
//
// The stages run strictly sequentially, a failure at any stage aborts the
// remaining stages. The returned error message is what the client sees.
func (s *Service) Analyze(ctx context.Context, id primitive.ObjectID) (*dto.AnalyzeResponse, error) {
	logger := gmw.GetLogger(ctx).Named("analyze")

	file, err := s.dao.Get(ctx, id)
	if err != nil {
		logger.Error("fetch document", zap.Error(err), zap.String("file_id", id.Hex()))
		return nil, errors.New("Document not found")
	}

	cnt, err := s.storage.Download(ctx, file.BucketFileID)
	if err != nil {
		logger.Error("download binary", zap.Error(err), zap.String("key", file.BucketFileID))
		return nil, errors.New("File download failed")
	}

	text, err := extract.Text(file.Extension, cnt)
	if err != nil {
		logger.Error("extract text", zap.Error(err), zap.String("extension", file.Extension))
		return nil, errors.New("Text extraction failed")
	}

	result, err := s.analyzeText(ctx, text)
	if err != nil {
		logger.Error("ai analysis", zap.Error(err))
		return nil, errors.Wrap(err, "AI analysis failed")
	}

	if err = s.dao.SaveAnalysis(ctx, id,
		result.Summary, result.Keywords, result.Category); err != nil {
		logger.Error("persist analysis", zap.Error(err))
		return nil, errors.Wrap(err, "DB update failed")
	}

	s.notifyChange(ctx, id.Hex(), dto.ChangeEventUpdate)
	return &dto.AnalyzeResponse{
		Status:   "ok",
		Summary:  result.Summary,
		Keywords: result.Keywords,
		Category: result.Category,
	}, nil
}

// analyzeText submits the document prefix to the model and parses its answer.
func (s *Service) analyzeText(ctx context.Context, text string) (*analysisResult, error) {
	prompt := fmt.Sprintf(analyzeUserPromptTpl, truncateRunes(text, analyzeTextLimit))

	content, err := s.chat.Complete(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := new(analysisResult)
	if err = json.Unmarshal([]byte(content), result); err != nil {
		return nil, errors.Wrap(err, "parse model output")
	}

	// all three fields must arrive together, a syntactically valid object
	// missing keys is rejected instead of persisting zero values
	if result.Summary == "" {
		return nil, errors.New("model output misses summary")
	}
	if result.Keywords == nil {
		return nil, errors.New("model output misses keywords")
	}
	if !result.Category.Valid() {
		return nil, errors.Errorf("model output category %q is not one of the known categories", result.Category)
	}

	return result, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}

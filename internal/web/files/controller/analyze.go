package controller

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
)

// AnalyzeFile handles the analyze endpoint, POST only.
func (t *Type) AnalyzeFile(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodPost {
		ctx.Header("Allow", http.MethodPost)
		ctx.JSON(http.StatusMethodNotAllowed,
			dto.AnalyzeErrorResponse{Status: "error", Error: "Method Not Allowed"})
		return
	}

	req := new(dto.AnalyzeRequest)
	if err := ctx.ShouldBindJSON(req); err != nil || req.FileID == "" {
		ctx.JSON(http.StatusBadRequest,
			dto.AnalyzeErrorResponse{Status: "error", Error: "fileId missing"})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.FileID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.AnalyzeErrorResponse{Status: "error", Error: "invalid fileId"})
		return
	}

	resp, err := t.svc.Analyze(ctx, id)
	if err != nil {
		gmw.GetLogger(ctx).Error("analyze file",
			zap.Error(err),
			zap.String("file_id", req.FileID))
		ctx.JSON(http.StatusInternalServerError,
			dto.AnalyzeErrorResponse{Status: "error", Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

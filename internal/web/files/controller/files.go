package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/service"
	"github.com/Laisky/storage-manager/library/db/mongo"
)

// ListFiles handles the list endpoint, GET only.
func (t *Type) ListFiles(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet {
		ctx.Header("Allow", http.MethodGet)
		ctx.JSON(http.StatusMethodNotAllowed,
			dto.ErrorResponse{Error: "Method Not Allowed"})
		return
	}

	filter := dto.ParseListFilter(
		ctx.Query("search"),
		ctx.Query("keywords"),
		ctx.Query("category"),
		ctx.Query("types"),
	)

	files, err := t.svc.ListFiles(ctx, filter)
	if err != nil {
		gmw.GetLogger(ctx).Error("list files", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	docs := make([]dto.FileDocument, 0, len(files))
	for i := range files {
		doc, err := dto.NewFileDocument(&files[i])
		if err != nil {
			gmw.GetLogger(ctx).Error("convert file", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError,
				dto.ErrorResponse{Error: err.Error()})
			return
		}

		docs = append(docs, *doc)
	}

	ctx.JSON(http.StatusOK, dto.ListFilesResponse{Documents: docs})
}

// GetFile handles the detail endpoint.
func (t *Type) GetFile(ctx *gin.Context) {
	id, ok := fileIDParam(ctx)
	if !ok {
		return
	}

	file, err := t.svc.GetFile(ctx, id)
	if err != nil {
		if mongo.NotFound(err) {
			ctx.JSON(http.StatusNotFound,
				dto.ErrorResponse{Error: "file not found"})
			return
		}

		gmw.GetLogger(ctx).Error("get file", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	doc, err := dto.NewFileDocument(file)
	if err != nil {
		gmw.GetLogger(ctx).Error("convert file", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, doc)
}

// UploadFile handles multipart file uploads.
func (t *Type) UploadFile(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.ErrorResponse{Error: "file is missing"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		gmw.GetLogger(ctx).Error("open upload", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}
	defer func() {
		_ = src.Close()
	}()

	file, err := t.svc.Upload(ctx, service.UploadRequest{
		Name:        fh.Filename,
		Owner:       ctx.PostForm("owner"),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      src,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			ctx.JSON(http.StatusBadRequest,
				dto.ErrorResponse{Error: err.Error()})
			return
		}

		gmw.GetLogger(ctx).Error("upload file", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	doc, err := dto.NewFileDocument(file)
	if err != nil {
		gmw.GetLogger(ctx).Error("convert file", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, doc)
}

// DownloadFile redirects to a short-lived direct download URL.
func (t *Type) DownloadFile(ctx *gin.Context) {
	id, ok := fileIDParam(ctx)
	if !ok {
		return
	}

	u, err := t.svc.DownloadURL(ctx, id)
	if err != nil {
		if mongo.NotFound(err) {
			ctx.JSON(http.StatusNotFound,
				dto.ErrorResponse{Error: "file not found"})
			return
		}

		gmw.GetLogger(ctx).Error("download url", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}

	ctx.Redirect(http.StatusFound, u.String())
}

// fileIDParam parses the :id route param, replying 400 on malformed ids.
func fileIDParam(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.ErrorResponse{Error: "invalid file id"})
		return primitive.NilObjectID, false
	}

	return id, true
}

package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/service"
	"github.com/Laisky/storage-manager/library/db/mongo"
)

// DispatchAction runs one tagged mutating action against a file.
func (t *Type) DispatchAction(ctx *gin.Context) {
	id, ok := fileIDParam(ctx)
	if !ok {
		return
	}

	req := new(dto.ActionRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.ErrorResponse{Error: "invalid action payload"})
		return
	}

	resp, err := t.svc.Dispatch(ctx, id, *req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownAction),
			errors.Is(err, service.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest,
				dto.ErrorResponse{Error: err.Error()})
		case mongo.NotFound(err):
			ctx.JSON(http.StatusNotFound,
				dto.ErrorResponse{Error: "file not found"})
		default:
			gmw.GetLogger(ctx).Error("dispatch action",
				zap.Error(err),
				zap.String("kind", string(req.Kind)))
			ctx.JSON(http.StatusInternalServerError,
				dto.ErrorResponse{Error: err.Error()})
		}

		return
	}

	ctx.JSON(http.StatusOK, resp)
}

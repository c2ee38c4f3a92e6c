package controller

import (
	"context"
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is enforced by the CORS layer
	CheckOrigin: func(*http.Request) bool { return true },
}

// SubscribeFile streams change events for one file document over websocket.
//
// The client is expected to re-fetch the detail endpoint on every update
// frame, no diff is delivered.
func (t *Type) SubscribeFile(ctx *gin.Context) {
	if _, ok := fileIDParam(ctx); !ok {
		return
	}
	fileID := ctx.Param("id")
	logger := gmw.GetLogger(ctx).Named("subscribe")

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, teardown, err := t.svc.SubscribeChanges(subCtx, fileID)
	if err != nil {
		logger.Error("subscribe changes", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: err.Error()})
		return
	}
	defer teardown()

	conn, err := wsUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warn("upgrade websocket", zap.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// the read pump only detects the peer closing
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-subCtx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("write event", zap.Error(err))
				return
			}
		}
	}
}

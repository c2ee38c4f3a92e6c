// Package controller exposes the files HTTP API.
package controller

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/storage-manager/internal/web/files/service"
)

// Type files controller
type Type struct {
	svc *service.Service
}

// New create new files controller
func New(svc *service.Service) *Type {
	return &Type{svc: svc}
}

var Instance *Type

func Initialize(ctx context.Context) {
	service.Initialize(ctx)
	Instance = New(service.Instance)
}

// RegisterRoutes mounts the files API on the router.
func (t *Type) RegisterRoutes(r gin.IRouter) {
	r.Any("/api/files", t.ListFiles)
	r.POST("/api/upload", t.UploadFile)
	r.GET("/api/files/:id", t.GetFile)
	r.GET("/api/files/:id/download", t.DownloadFile)
	r.GET("/api/files/:id/subscribe", t.SubscribeFile)
	r.POST("/api/files/:id/actions", t.DispatchAction)
	r.Any("/api/analyze", t.AnalyzeFile)
}

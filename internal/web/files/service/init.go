package service

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"

	"github.com/Laisky/storage-manager/internal/global"
	"github.com/Laisky/storage-manager/internal/library/llm"
	"github.com/Laisky/storage-manager/internal/web/files/dao"
)

const defaultLLMModel = "gpt-4o-mini"

var Instance *Service

func Initialize(ctx context.Context) {
	helper := llm.NewChatHelper(
		gconfig.Shared.GetString("settings.llm.api_base"),
		gconfig.Shared.GetDuration("settings.llm.timeout"),
		nil,
	)

	Instance = NewService(
		dao.NewFiles(global.FilesDB),
		dao.NewStorage(global.MinioCli,
			gconfig.Shared.GetString("settings.storage.bucket")),
		&chatCompleter{helper: helper},
		NewChangeBus(global.RedisDB),
	)
}

// chatCompleter binds the chat helper to the configured credential and model.
type chatCompleter struct {
	helper *llm.ChatHelper
}

func (c *chatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	model := gconfig.Shared.GetString("settings.llm.model")
	if model == "" {
		model = defaultLLMModel
	}

	return c.helper.CreateCompletion(ctx,
		gconfig.Shared.GetString("settings.llm.api_key"),
		llm.ChatRequest{
			Model: model,
			Messages: []llm.ChatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
		})
}

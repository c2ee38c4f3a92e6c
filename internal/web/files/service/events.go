package service

import (
	"context"
	"encoding/json"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/library/db/redis"
)

const changeChannelPrefix = "storage-manager/files/"

// ChangeBus delivers per-document change events over redis pub/sub.
//
// The bus owns no background state of its own, every Subscribe call opens
// one subscription which lives until its teardown func is called.
type ChangeBus struct {
	rdb *redis.DB
}

// NewChangeBus create new ChangeBus
func NewChangeBus(rdb *redis.DB) *ChangeBus {
	return &ChangeBus{rdb: rdb}
}

func changeChannel(fileID string) string {
	return changeChannelPrefix + fileID
}

// Publish sends one change event to the document's channel.
func (b *ChangeBus) Publish(ctx context.Context, ev dto.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal change event")
	}

	if err = b.rdb.Publish(ctx, changeChannel(ev.FileID), payload); err != nil {
		return errors.Wrap(err, "publish change event")
	}

	return nil
}

// Subscribe opens one subscription scoped to a single document.
// The teardown func must be called when the subscriber is done,
// reconnection is delegated entirely to the underlying redis client.
func (b *ChangeBus) Subscribe(ctx context.Context,
	fileID string) (<-chan dto.ChangeEvent, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, changeChannel(fileID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, errors.Wrap(err, "subscribe change channel")
	}

	out := make(chan dto.ChangeEvent, 8)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev dto.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	teardown := func() {
		_ = pubsub.Close()
	}
	return out, teardown, nil
}

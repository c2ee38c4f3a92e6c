package service

import (
	"context"
	"io"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/model"
)

type savedAnalysis struct {
	summary  string
	keywords []string
	category model.Category
}

type fakeDAO struct {
	file  *model.File
	files []model.File

	getErr          error
	listErr         error
	insertErr       error
	updateNameErr   error
	updateSharedErr error
	saveErr         error
	deleteErr       error

	insertedFile *model.File
	updatedName  string
	sharedWith   []string
	saved        *savedAnalysis
	deleted      bool
	listFilter   dto.ListFilesFilter
}

func (d *fakeDAO) List(ctx context.Context, f dto.ListFilesFilter) ([]model.File, error) {
	d.listFilter = f
	if d.listErr != nil {
		return nil, d.listErr
	}

	return d.files, nil
}

func (d *fakeDAO) Get(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	if d.getErr != nil {
		return nil, d.getErr
	}

	return d.file, nil
}

func (d *fakeDAO) Insert(ctx context.Context, file *model.File) error {
	if d.insertErr != nil {
		return d.insertErr
	}

	file.ID = primitive.NewObjectID()
	d.insertedFile = file
	return nil
}

func (d *fakeDAO) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	if d.updateNameErr != nil {
		return d.updateNameErr
	}

	d.updatedName = name
	return nil
}

func (d *fakeDAO) UpdateSharedWith(ctx context.Context, id primitive.ObjectID, emails []string) error {
	if d.updateSharedErr != nil {
		return d.updateSharedErr
	}

	d.sharedWith = emails
	return nil
}

func (d *fakeDAO) SaveAnalysis(ctx context.Context, id primitive.ObjectID,
	summary string, keywords []string, category model.Category) error {
	if d.saveErr != nil {
		return d.saveErr
	}

	d.saved = &savedAnalysis{summary: summary, keywords: keywords, category: category}
	return nil
}

func (d *fakeDAO) Delete(ctx context.Context, id primitive.ObjectID) error {
	if d.deleteErr != nil {
		return d.deleteErr
	}

	d.deleted = true
	return nil
}

type fakeStorage struct {
	data []byte

	putErr      error
	downloadErr error
	removeErr   error
	presignErr  error

	putKey         string
	downloadCalled bool
	removedKey     string
}

func (s *fakeStorage) Put(ctx context.Context,
	key string, reader io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}

	s.putKey = key
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	s.downloadCalled = true
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}

	return s.data, nil
}

func (s *fakeStorage) Remove(ctx context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}

	s.removedKey = key
	return nil
}

func (s *fakeStorage) PresignedGet(ctx context.Context,
	key, filename string, expiry time.Duration) (*url.URL, error) {
	if s.presignErr != nil {
		return nil, s.presignErr
	}

	return url.Parse("https://storage.example.com/" + key)
}

type fakeChat struct {
	response string
	err      error

	called     bool
	userPrompt string
}

func (c *fakeChat) Complete(ctx context.Context, system, user string) (string, error) {
	c.called = true
	c.userPrompt = user
	if c.err != nil {
		return "", c.err
	}

	return c.response, nil
}

type fakeBus struct {
	published []dto.ChangeEvent
	events    chan dto.ChangeEvent
	tornDown  bool
}

func (b *fakeBus) Publish(ctx context.Context, ev dto.ChangeEvent) error {
	b.published = append(b.published, ev)
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context,
	fileID string) (<-chan dto.ChangeEvent, func(), error) {
	if b.events == nil {
		b.events = make(chan dto.ChangeEvent, 8)
	}

	return b.events, func() { b.tornDown = true }, nil
}

func newTestService(dao *fakeDAO, storage *fakeStorage,
	chat *fakeChat, bus *fakeBus) *Service {
	return NewService(dao, storage, chat, bus)
}

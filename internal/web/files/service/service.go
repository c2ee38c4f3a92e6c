// Package service implements the business logic of the files module.
package service

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/model"
)

const downloadURLTTL = 15 * time.Minute

var (
	// ErrInvalidInput marks client input errors, mapped to HTTP 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownAction marks an action kind outside the closed set.
	ErrUnknownAction = errors.New("unknown action kind")
)

// FileDAO is the document store surface the service depends on.
type FileDAO interface {
	List(ctx context.Context, f dto.ListFilesFilter) ([]model.File, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.File, error)
	Insert(ctx context.Context, file *model.File) error
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) error
	UpdateSharedWith(ctx context.Context, id primitive.ObjectID, emails []string) error
	SaveAnalysis(ctx context.Context, id primitive.ObjectID,
		summary string, keywords []string, category model.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ObjectStorage is the binary storage surface the service depends on.
type ObjectStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	PresignedGet(ctx context.Context, key, filename string, expiry time.Duration) (*url.URL, error)
}

// ChatCompleter is the LLM surface the analyze pipeline depends on.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChangePublisher is the realtime channel surface.
type ChangePublisher interface {
	Publish(ctx context.Context, ev dto.ChangeEvent) error
	Subscribe(ctx context.Context, fileID string) (<-chan dto.ChangeEvent, func(), error)
}

// Service files service
type Service struct {
	dao     FileDAO
	storage ObjectStorage
	chat    ChatCompleter
	bus     ChangePublisher
}

// NewService create new files service
func NewService(dao FileDAO, storage ObjectStorage,
	chat ChatCompleter, bus ChangePublisher) *Service {
	return &Service{
		dao:     dao,
		storage: storage,
		chat:    chat,
		bus:     bus,
	}
}

// ListFiles returns file records matching the filter.
func (s *Service) ListFiles(ctx context.Context, f dto.ListFilesFilter) ([]model.File, error) {
	files, err := s.dao.List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list files")
	}

	return files, nil
}

// GetFile loads one file record.
func (s *Service) GetFile(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	file, err := s.dao.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get file")
	}

	return file, nil
}

// UploadRequest carries one incoming file upload.
type UploadRequest struct {
	Name        string
	Owner       string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Upload stores the binary and creates its file record.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*model.File, error) {
	logger := gmw.GetLogger(ctx).Named("upload")

	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "file name is empty")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.New().String()
	if err := s.storage.Put(ctx, key, req.Reader, req.Size, contentType); err != nil {
		return nil, errors.Wrap(err, "store file binary")
	}

	ext := model.ExtensionOf(req.Name)
	file := &model.File{
		Name:         req.Name,
		Extension:    ext,
		BucketFileID: key,
		ContentType:  contentType,
		Size:         req.Size,
		Type:         model.TypeForExtension(ext),
		Owner:        req.Owner,
		SharedWith:   []string{},
	}
	if err := s.dao.Insert(ctx, file); err != nil {
		// record failed, drop the orphan object
		if rerr := s.storage.Remove(ctx, key); rerr != nil {
			logger.Error("remove orphan object", zap.Error(rerr), zap.String("key", key))
		}

		return nil, errors.Wrap(err, "save file record")
	}

	logger.Info("uploaded file",
		zap.String("id", file.ID.Hex()),
		zap.String("name", file.Name))
	return file, nil
}

// Dispatch runs one tagged mutating action against a file.
func (s *Service) Dispatch(ctx context.Context,
	id primitive.ObjectID, req dto.ActionRequest) (*dto.ActionResponse, error) {
	switch req.Kind {
	case dto.ActionRename:
		if err := s.Rename(ctx, id, req.Name); err != nil {
			return nil, errors.WithStack(err)
		}

		return &dto.ActionResponse{Status: "ok"}, nil
	case dto.ActionShare:
		if err := s.UpdateSharedUsers(ctx, id, req.Emails); err != nil {
			return nil, errors.WithStack(err)
		}

		return &dto.ActionResponse{Status: "ok", SharedWith: req.Emails}, nil
	case dto.ActionUnshare:
		remaining, err := s.RemoveSharedUser(ctx, id, req.Email)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return &dto.ActionResponse{Status: "ok", SharedWith: remaining}, nil
	case dto.ActionDelete:
		if err := s.Delete(ctx, id); err != nil {
			return nil, errors.WithStack(err)
		}

		return &dto.ActionResponse{Status: "ok"}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownAction, "%q", req.Kind)
	}
}

// Rename sets a new display name, the original extension is preserved.
func (s *Service) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.Wrap(ErrInvalidInput, "new name is empty")
	}

	file, err := s.dao.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get file")
	}

	fullName := name
	if file.Extension != "" {
		fullName = name + "." + file.Extension
	}

	if err = s.dao.UpdateName(ctx, id, fullName); err != nil {
		return errors.Wrap(err, "rename file")
	}

	s.notifyChange(ctx, id.Hex(), dto.ChangeEventUpdate)
	return nil
}

// UpdateSharedUsers replaces the full shared-user email list.
func (s *Service) UpdateSharedUsers(ctx context.Context,
	id primitive.ObjectID, emails []string) error {
	if err := s.dao.UpdateSharedWith(ctx, id, emails); err != nil {
		return errors.Wrap(err, "update shared users")
	}

	s.notifyChange(ctx, id.Hex(), dto.ChangeEventUpdate)
	return nil
}

// RemoveSharedUser removes one email from the shared-user list
// and returns the remaining list.
func (s *Service) RemoveSharedUser(ctx context.Context,
	id primitive.ObjectID, email string) ([]string, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "email is empty")
	}

	file, err := s.dao.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get file")
	}

	remaining := make([]string, 0, len(file.SharedWith))
	for _, e := range file.SharedWith {
		if e != email {
			remaining = append(remaining, e)
		}
	}

	if err = s.dao.UpdateSharedWith(ctx, id, remaining); err != nil {
		return nil, errors.Wrap(err, "update shared users")
	}

	s.notifyChange(ctx, id.Hex(), dto.ChangeEventUpdate)
	return remaining, nil
}

// Delete removes the stored object and the file record.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	file, err := s.dao.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get file")
	}

	var pool errgroup.Group
	pool.Go(func() error {
		if err := s.storage.Remove(ctx, file.BucketFileID); err != nil {
			return errors.Wrap(err, "remove object")
		}

		return nil
	})
	pool.Go(func() error {
		if err := s.dao.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete record")
		}

		return nil
	})
	if err = pool.Wait(); err != nil {
		return errors.Wrap(err, "delete file")
	}

	s.notifyChange(ctx, id.Hex(), dto.ChangeEventDelete)
	return nil
}

// DownloadURL constructs a short-lived direct download URL for the stored object.
func (s *Service) DownloadURL(ctx context.Context, id primitive.ObjectID) (*url.URL, error) {
	file, err := s.dao.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get file")
	}

	u, err := s.storage.PresignedGet(ctx, file.BucketFileID, file.Name, downloadURLTTL)
	if err != nil {
		return nil, errors.Wrap(err, "presign download")
	}

	return u, nil
}

// SubscribeChanges opens one realtime subscription for a file document.
func (s *Service) SubscribeChanges(ctx context.Context,
	fileID string) (<-chan dto.ChangeEvent, func(), error) {
	return s.bus.Subscribe(ctx, fileID)
}

// notifyChange publishes a change event, publish failures never fail the mutation.
func (s *Service) notifyChange(ctx context.Context, fileID, kind string) {
	if err := s.bus.Publish(ctx, dto.ChangeEvent{
		Event:  kind,
		FileID: fileID,
	}); err != nil {
		gmw.GetLogger(ctx).Warn("publish change event",
			zap.Error(err),
			zap.String("file_id", fileID),
			zap.String("event", kind))
	}
}

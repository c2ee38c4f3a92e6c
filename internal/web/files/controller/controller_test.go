package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/model"
	"github.com/Laisky/storage-manager/internal/web/files/service"
)

type fakeDAO struct {
	files      []model.File
	file       *model.File
	listErr    error
	getErr     error
	listFilter dto.ListFilesFilter
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

func (d *fakeDAO) Insert(ctx context.Context, file *model.File) error { return nil }
func (d *fakeDAO) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	return nil
}
func (d *fakeDAO) UpdateSharedWith(ctx context.Context, id primitive.ObjectID, emails []string) error {
	return nil
}
func (d *fakeDAO) SaveAnalysis(ctx context.Context, id primitive.ObjectID,
	summary string, keywords []string, category model.Category) error {
	return nil
}
func (d *fakeDAO) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type fakeStorage struct{}

func (s *fakeStorage) Put(ctx context.Context,
	key string, reader io.Reader, size int64, contentType string) error {
	return nil
}
func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("no data")
}
func (s *fakeStorage) Remove(ctx context.Context, key string) error { return nil }
func (s *fakeStorage) PresignedGet(ctx context.Context,
	key, filename string, expiry time.Duration) (*url.URL, error) {
	return url.Parse("https://storage.example.com/" + key)
}

type fakeChat struct{}

func (c *fakeChat) Complete(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not configured")
}

type fakeBus struct {
	events chan dto.ChangeEvent
}

func (b *fakeBus) Publish(ctx context.Context, ev dto.ChangeEvent) error { return nil }
func (b *fakeBus) Subscribe(ctx context.Context,
	fileID string) (<-chan dto.ChangeEvent, func(), error) {
	if b.events == nil {
		b.events = make(chan dto.ChangeEvent, 8)
	}

	return b.events, func() {}, nil
}

func newTestRouter(dao *fakeDAO, bus *fakeBus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(service.NewService(dao, &fakeStorage{}, &fakeChat{}, bus)).
		RegisterRoutes(engine)
	return engine
}

// TestListFilesMethodNotAllowed verifies non-GET requests get 405 with Allow: GET.
func TestListFilesMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/files", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, http.MethodGet, w.Header().Get("Allow"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Method Not Allowed", resp.Error)
}

// TestListFilesOK verifies query params normalize into the backend filter.
func TestListFilesOK(t *testing.T) {
	t.Parallel()

	dao := &fakeDAO{files: []model.File{{
		ID:   primitive.NewObjectID(),
		Name: "report.pdf",
		Type: model.FileTypeDocument,
	}}}
	router := newTestRouter(dao, &fakeBus{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/files?search=rep&keywords=a,+,b,&category=Report&types=document,image", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	require.Equal(t, "report.pdf", resp.Documents[0].Name)

	require.Equal(t, "rep", dao.listFilter.Search)
	require.Equal(t, []string{"a", "b"}, dao.listFilter.Keywords)
	require.Equal(t, "Report", dao.listFilter.Category)
	require.Equal(t, []string{"document", "image"}, dao.listFilter.Types)
}

// TestListFilesBackendError verifies the upstream message is surfaced with 500.
func TestListFilesBackendError(t *testing.T) {
	t.Parallel()

	dao := &fakeDAO{listErr: errors.New("connection reset")}
	router := newTestRouter(dao, &fakeBus{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "connection reset")
}

// TestGetFileInvalidID verifies malformed ids are rejected with 400.
func TestGetFileInvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/not-an-id", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAnalyzeMethodNotAllowed verifies non-POST requests get 405 with Allow: POST.
func TestAnalyzeMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

// TestAnalyzeMissingFileID verifies an empty body is a client input error.
func TestAnalyzeMissingFileID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.AnalyzeErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "error", resp.Status)
	require.Equal(t, "fileId missing", resp.Error)
}

// TestAnalyzeInvalidFileID verifies malformed ids are rejected with 400.
func TestAnalyzeInvalidFileID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"fileId":"zzz"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestDispatchActionUnknownKind verifies kinds outside the closed set get 400.
func TestDispatchActionUnknownKind(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeDAO{}, &fakeBus{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		"/api/files/"+primitive.NewObjectID().Hex()+"/actions",
		strings.NewReader(`{"kind":"archive"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestSubscribeStreamsEvents verifies change events reach the websocket client.
func TestSubscribeStreamsEvents(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{events: make(chan dto.ChangeEvent, 8)}
	router := newTestRouter(&fakeDAO{}, bus)

	server := httptest.NewServer(router)
	defer server.Close()

	fileID := primitive.NewObjectID().Hex()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") +
		"/api/files/" + fileID + "/subscribe"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	bus.events <- dto.ChangeEvent{Event: dto.ChangeEventUpdate, FileID: fileID}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev dto.ChangeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, dto.ChangeEventUpdate, ev.Event)
	require.Equal(t, fileID, ev.FileID)
}

// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-wizard/internal/common/config"
	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/records"
	"recruiting-wizard/internal/wizard/controller"
	"recruiting-wizard/internal/wizard/draft"
	"recruiting-wizard/internal/wizard/form"
	"recruiting-wizard/internal/wizard/submit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSubmitter struct{}

func (fakeSubmitter) Run(_ context.Context, _ *form.Application) (*submit.Result, error) {
	return &submit.Result{ApplicationID: "app-1"}, nil
}

type fakeDirectory struct {
	listArchived *bool
	record       *records.ApplicationRecord
	deleted      []string
	statuses     map[string]string
}

func (f *fakeDirectory) List(_ context.Context, archived *bool) ([]*records.ApplicationRecord, error) {
	f.listArchived = archived
	if f.record == nil {
		return nil, nil
	}
	return []*records.ApplicationRecord{f.record}, nil
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*records.ApplicationRecord, error) {
	if f.record != nil && f.record.ID == id {
		return f.record, nil
	}
	return nil, fmt.Errorf("application %s not found", id)
}

func (f *fakeDirectory) UpdateStatus(_ context.Context, id, status string) error {
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeDirectory) SetArchived(_ context.Context, _ string, _ bool) error { return nil }

func (f *fakeDirectory) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDirectory) GetStats(_ context.Context) (*records.Stats, error) {
	return &records.Stats{Total: 3, Active: 2, Archived: 1, Pending: 2}, nil
}

func newTestServer(t *testing.T, directory *fakeDirectory) *Server {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	drafts := draft.NewRedisStore(client, 0, logger.NewTestLogger(t))

	uploads := config.UploadConfig{MaxDocumentBytes: 10 << 20, MaxPhotoBytes: 5 << 20}
	wizard := controller.New(drafts, fakeSubmitter{}, uploads, logger.NewTestLogger(t))

	cfg := config.ServerConfig{AdminToken: "secret"}
	return New(wizard, directory, stubBlobStore{}, cfg, time.Hour, logger.NewTestLogger(t))
}

type stubBlobStore struct{}

func (stubBlobStore) Upload(_ context.Context, _, _ string, _ io.Reader) error {
	return nil
}

func (stubBlobStore) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://signed.example/" + path, nil
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSessionReturnsDefaults(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		SessionID string               `json:"sessionId"`
		State     *controller.Snapshot `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, form.StepIntro, body.State.Application.CurrentStep)
}

func TestBlockedNextSurfacesModal(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/next", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap controller.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Modal.Open)
	assert.Equal(t, form.StepIntro, snap.Application.CurrentStep)
}

func TestIntroThenNextAdvances(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/intro",
		map[string]bool{"accepted": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/next", nil, nil)
	var snap controller.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, form.StepMission, snap.Application.CurrentStep)
}

func TestUpdateOutcomeRejectsUnknownKey(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	w := doJSON(t, router, http.MethodPatch, "/api/v1/sessions/s1/outcomes/bogus",
		map[string]bool{"accepted": true}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadDocumentViaMultipart(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snap controller.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Application.Step4.Files, 1)
	assert.Equal(t, "cv.pdf", snap.Application.Step4.Files[0].Name)
}

func TestAdminRequiresToken(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()

	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil,
		map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil,
		map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"total":3`))
}

func TestListApplicationsParsesArchivedFilter(t *testing.T) {
	directory := &fakeDirectory{}
	srv := newTestServer(t, directory)
	router := srv.Router()
	auth := map[string]string{"Authorization": "Bearer secret"}

	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/applications?archived=true", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, directory.listArchived)
	assert.True(t, *directory.listArchived)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/applications", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, directory.listArchived)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/applications?archived=maybe", nil, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	directory := &fakeDirectory{}
	srv := newTestServer(t, directory)
	router := srv.Router()
	auth := map[string]string{"Authorization": "Bearer secret"}

	w := doJSON(t, router, http.MethodPatch, "/api/v1/admin/applications/app-1/status",
		map[string]string{"status": records.StatusApproved}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, records.StatusApproved, directory.statuses["app-1"])

	w = doJSON(t, router, http.MethodDelete, "/api/v1/admin/applications/app-1", nil, auth)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"app-1"}, directory.deleted)
}

func TestSignedURL(t *testing.T) {
	srv := newTestServer(t, &fakeDirectory{})
	router := srv.Router()
	auth := map[string]string{"Authorization": "Bearer secret"}

	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/files/signed-url?path=app-1/cv.pdf", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed.example/app-1/cv.pdf")

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/files/signed-url", nil, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
	"alfredoptarigan/resume-insight/internal/services"
)

type fakeResumeRepo struct {
	mu          sync.Mutex
	resumes     map[uuid.UUID]*models.Resume
	createErr   error
	comparisons map[uuid.UUID]*models.MatchResult
}

func newFakeResumeRepo(resumes ...*models.Resume) *fakeResumeRepo {
	repo := &fakeResumeRepo{
		resumes:     map[uuid.UUID]*models.Resume{},
		comparisons: map[uuid.UUID]*models.MatchResult{},
	}
	for _, r := range resumes {
		repo.resumes[r.ID] = r
	}
	return repo
}

func (f *fakeResumeRepo) Create(_ context.Context, resume *models.Resume) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes[resume.ID] = resume
	return nil
}

func (f *fakeResumeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resumes[id]
	if !ok {
		return nil, repositories.ErrResumeNotFound
	}
	return r, nil
}

func (f *fakeResumeRepo) ClaimForProcessing(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeResumeRepo) UpdateResult(context.Context, uuid.UUID, *repositories.ResumeResultData) error {
	return nil
}

func (f *fakeResumeRepo) UpdateError(context.Context, uuid.UUID, string) error {
	return nil
}

func (f *fakeResumeRepo) UpdateComparison(_ context.Context, id uuid.UUID, comparison *models.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comparisons[id] = comparison
	return nil
}

func (f *fakeResumeRepo) FindPendingJobs(context.Context, int) ([]models.Resume, error) {
	return nil, nil
}

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
}

func (s *fakeStorage) SaveFile(_ context.Context, file *multipart.FileHeader, fileType string) (string, error) {
	if _, err := services.MimeTypeForFile(file.Filename); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	key := fileType + "_" + file.Filename
	s.saved[key] = data
	return key, nil
}

func (s *fakeStorage) Read(_ context.Context, key string) ([]byte, error) {
	return s.saved[key], nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeWorker struct {
	enqueued []uuid.UUID
}

func (w *fakeWorker) Start(context.Context) {}

func (w *fakeWorker) Stop() {}

func (w *fakeWorker) EnqueueJob(id uuid.UUID) {
	w.enqueued = append(w.enqueued, id)
}

func testAnalyzer(t *testing.T) services.AnalyzerService {
	t.Helper()
	vocab := services.DefaultVocabulary()
	keywords := services.NewKeywordExtractor(vocab)
	return services.NewAnalyzerService(services.AnalyzerDeps{
		Extractor: services.NewTextExtractor(nil, vocab.MinTextLength, nil),
		Keywords:  keywords,
		Sections:  services.NewSectionEntityIdentifier(vocab),
		Scorer:    services.NewResumeScorer(vocab, services.NewSentimentAnalyzer(), nil),
		Matcher:   services.NewJDMatcher(keywords, nil),
		Cache:     services.NewContentCache(repositories.NewMemoryCacheRepository(), nil),
	})
}

type testServer struct {
	app     *fiber.App
	repo    *fakeResumeRepo
	storage *fakeStorage
	worker  *fakeWorker
}

func newTestServer(t *testing.T, resumes ...*models.Resume) *testServer {
	t.Helper()

	repo := newFakeResumeRepo(resumes...)
	storage := &fakeStorage{saved: map[string][]byte{}}
	worker := &fakeWorker{}
	analyzer := testAnalyzer(t)

	app := fiber.New()
	RegisterRoutes(app.Group("/api/v1"),
		NewUploadHandler(repo, storage, worker, 1<<20),
		NewResultHandler(repo),
		NewJDHandler(repo, analyzer, 1<<20),
	)

	return &testServer{app: app, repo: repo, storage: storage, worker: worker}
}

func multipartRequest(t *testing.T, target string, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		field, fileName, _ := strings.Cut(name, ":")
		part, err := writer.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func completedResume() *models.Resume {
	return &models.Resume{
		ID:          uuid.New(),
		UserID:      models.DefaultUserID,
		FileName:    "cv.pdf",
		Status:      models.StatusCompleted,
		TextContent: "Experience\nreact and mongodb developer",
		Keywords:    []string{"react", "node", "mongodb", "api"},
		Analysis:    &models.Analysis{Score: 64},
	}
}

func TestUpload_QueuesResume(t *testing.T) {
	srv := newTestServer(t)

	req := multipartRequest(t, "/api/v1/resumes",
		map[string]string{"resume:cv.txt": "Experience\nBackend engineer"},
		map[string]string{"user_id": "u-42"})
	resp, err := srv.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	var body models.UploadResponse
	decode(t, resp, &body)
	assert.Equal(t, "queued", body.Status)
	assert.Equal(t, "text/plain", body.MimeType)

	id := uuid.MustParse(body.ID)
	assert.Equal(t, []uuid.UUID{id}, srv.worker.enqueued)
	stored, err := srv.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "u-42", stored.UserID)
	assert.Equal(t, "resume_cv.txt", stored.ObjectKey)
}

func TestUpload_DefaultsUserID(t *testing.T) {
	srv := newTestServer(t)

	req := multipartRequest(t, "/api/v1/resumes", map[string]string{"resume:cv.pdf": "%PDF-1.4"}, nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)

	var body models.UploadResponse
	decode(t, resp, &body)
	stored, err := srv.repo.FindByID(context.Background(), uuid.MustParse(body.ID))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUserID, stored.UserID)
}

func TestUpload_Rejections(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.app.Test(multipartRequest(t, "/api/v1/resumes", nil, map[string]string{"user_id": "u"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = srv.app.Test(multipartRequest(t, "/api/v1/resumes", map[string]string{"resume:cv.png": "png"}, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, srv.worker.enqueued)
}

func TestUpload_CleansUpWhenRecordFails(t *testing.T) {
	srv := newTestServer(t)
	srv.repo.createErr = errors.New("db down")

	resp, err := srv.app.Test(multipartRequest(t, "/api/v1/resumes", map[string]string{"resume:cv.txt": "text"}, nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, []string{"resume_cv.txt"}, srv.storage.deleted)
	assert.Empty(t, srv.worker.enqueued)
}

func TestGetResult(t *testing.T) {
	resume := completedResume()
	failed := &models.Resume{ID: uuid.New(), Status: models.StatusFailed, ErrorMessage: "text extraction failed"}
	srv := newTestServer(t, resume, failed)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resume.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body models.ResumeResponse
	decode(t, resp, &body)
	assert.Equal(t, "completed", body.Status)
	require.NotNil(t, body.Analysis)
	assert.Equal(t, 64, body.Analysis.Score)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+failed.ID.String(), nil))
	require.NoError(t, err)
	body = models.ResumeResponse{}
	decode(t, resp, &body)
	require.NotNil(t, body.ErrorMessage)
	assert.Equal(t, "text extraction failed", *body.ErrorMessage)
	assert.Nil(t, body.Analysis)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resumes/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCompare_WithJDText(t *testing.T) {
	resume := completedResume()
	srv := newTestServer(t, resume)
	jd := "React developer with MongoDB experience, strong team communication and ownership of delivery."

	resp, err := srv.app.Test(formRequest("/api/v1/resumes/"+resume.ID.String()+"/compare-jd", url.Values{"jd_text": {jd}}))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body models.CompareResponse
	decode(t, resp, &body)
	assert.Equal(t, resume.ID.String(), body.ResumeID)
	assert.Greater(t, body.JDComparison.MatchScore, 0)
	assert.NotContains(t, body.JDComparison.MissingKeywords, "react")
	assert.Contains(t, body.JDComparison.MissingKeywords, "developer")
	assert.NotNil(t, srv.repo.comparisons[resume.ID])
}

func TestCompare_WithJDFile(t *testing.T) {
	resume := completedResume()
	srv := newTestServer(t, resume)
	jd := "Backend developer: node, mongodb, api design, react exposure and strong communication skills."

	req := multipartRequest(t, "/api/v1/resumes/"+resume.ID.String()+"/compare-jd", map[string]string{"jd:jd.txt": jd}, nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCompare_Rejections(t *testing.T) {
	resume := completedResume()
	queued := &models.Resume{ID: uuid.New(), Status: models.StatusQueued}
	srv := newTestServer(t, resume, queued)

	tests := []struct {
		name   string
		target string
		values url.Values
		want   int
	}{
		{"not completed", "/api/v1/resumes/" + queued.ID.String() + "/compare-jd", url.Values{"jd_text": {strings.Repeat("golang ", 20)}}, fiber.StatusConflict},
		{"missing jd", "/api/v1/resumes/" + resume.ID.String() + "/compare-jd", url.Values{}, fiber.StatusBadRequest},
		{"jd too short", "/api/v1/resumes/" + resume.ID.String() + "/compare-jd", url.Values{"jd_text": {"golang dev"}}, fiber.StatusUnprocessableEntity},
		{"unknown resume", "/api/v1/resumes/" + uuid.NewString() + "/compare-jd", url.Values{"jd_text": {"x"}}, fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.app.Test(formRequest(tt.target, tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSimilar_IndexDisabled(t *testing.T) {
	resume := completedResume()
	srv := newTestServer(t, resume)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resume.ID.String()+"/similar-jds", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusForError(services.ErrInsufficientText))
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusForError(services.ErrExtractionFailure))
	assert.Equal(t, fiber.StatusNotFound, statusForError(services.ErrIndexDisabled))
	assert.Equal(t, fiber.StatusInternalServerError, statusForError(services.ErrComparisonFailure))
}

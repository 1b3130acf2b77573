package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/api/v1/handlers"
	"legal-scribe/internal/api/v1/routes"
	"legal-scribe/internal/api/v1/services"
	"legal-scribe/internal/app/api/demo"
	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/render"
	"legal-scribe/internal/app/session"
)

func newTestRouter(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("demo", &demo.Provider{Delay: 0}))

	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)

	logger := zap.NewNop()
	metrics := provider.NewMetrics(prometheus.NewRegistry())
	detector := &entity.MockDetector{}

	container := &routes.ServiceContainer{
		SessionService:       services.NewSessionService(store, time.Minute, logger),
		TranscriptionService: services.NewTranscriptionService(registry, detector, metrics, "demo", logger),
		ExportService:        services.NewExportService(export.NewExporter(), logger),
		ProviderService:      services.NewProviderService(registry, "demo"),
		Logger:               logger,
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	routes.RegisterRoutes(v1, container)
	return router, store
}

func createSession(t *testing.T, router *gin.Engine, apiKey string) string {
	t.Helper()

	body, _ := json.Marshal(dto.CreateSessionRequest{APIKey: apiKey})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func uploadAudio(t *testing.T, router *gin.Engine, sessionID string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "hearing.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake audio bytes"))
	require.NoError(t, err)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if sessionID != "" {
		req.Header.Set(handlers.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSession(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("demo mode without a key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp dto.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.DemoMode)
	})

	t.Run("credential is never echoed", func(t *testing.T) {
		body := []byte(`{"api_key": "sk_super_secret"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "sk_super_secret")

		var resp dto.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.DemoMode)
	})
}

func TestGetSession(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "sk_super_secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sk_super_secret")

	var info dto.SessionInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, sessionID, info.SessionID)
	assert.False(t, info.DemoMode)
	assert.Equal(t, 0, info.TranscriptionCount)

	t.Run("count follows stored transcriptions", func(t *testing.T) {
		upload := uploadAudio(t, router, sessionID, map[string]string{"provider": "demo"})
		require.Equal(t, http.StatusCreated, upload.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var info dto.SessionInfoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, 1, info.TranscriptionCount)
	})

	t.Run("unknown session is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/no-such-session", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeleteSessionByPath(t *testing.T) {
	router, store := newTestRouter(t)
	sessionID := createSession(t, router, "")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())

	t.Run("session is gone afterwards", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeleteSession(t *testing.T) {
	router, store := newTestRouter(t)
	sessionID := createSession(t, router, "")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil)
	req.Header.Set(handlers.SessionHeader, sessionID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())

	t.Run("deleting again fails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTranscribe(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "")

	w := uploadAudio(t, router, sessionID, map[string]string{
		"diarize":         "true",
		"detect_entities": "true",
		"keyterms":        "MSA, breach of contract",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "hearing.mp3", resp.Filename)
	assert.Equal(t, "demo", resp.Provider)
	assert.NotEmpty(t, resp.Text)
	assert.Len(t, resp.Segments, 2)
	assert.NotEmpty(t, resp.Entities)
	assert.True(t, resp.Diarized)
	assert.Contains(t, resp.Rendered.HTML, "entity-tag")
	assert.Equal(t, 2, resp.Rendered.SpeakerTotal)

	t.Run("per-request key is accepted and never echoed", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "hearing.mp3")
		require.NoError(t, err)
		part.Write([]byte("fake audio bytes"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set(handlers.SessionHeader, sessionID)
		req.Header.Set(handlers.APIKeyHeader, "sk_request_only")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "sk_request_only")
	})
}

func TestRenderTranscription(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "")

	w := uploadAudio(t, router, sessionID, map[string]string{
		"diarize":         "true",
		"detect_entities": "true",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions/"+created.ID+"/render", nil)
	req.Header.Set(handlers.SessionHeader, sessionID)
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	var rendered render.RenderedTranscript
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &rendered))
	assert.Equal(t, created.ID, rendered.ID)
	assert.Contains(t, rendered.HTML, "entity-tag")
	assert.Equal(t, 2, rendered.SpeakerTotal)
	assert.NotEmpty(t, rendered.Segments)
	assert.NotEmpty(t, rendered.EntitySummary)

	t.Run("unknown id is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions/nope/render", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTranscribeRejections(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "")

	t.Run("missing session header", func(t *testing.T) {
		w := uploadAudio(t, router, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := uploadAudio(t, router, "no-such-session", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing file part", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported audio format", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "notes.txt")
		require.NoError(t, err)
		part.Write([]byte("not audio"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "upload_rejected")
	})

	t.Run("unknown provider", func(t *testing.T) {
		w := uploadAudio(t, router, sessionID, map[string]string{"provider": "whisperx"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAndGetTranscriptions(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "")

	w := uploadAudio(t, router, sessionID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var list dto.TranscriptionListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Equal(t, 1, list.Count)
		assert.Equal(t, created.ID, list.Transcriptions[0].ID)
	})

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions/"+created.ID, nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.TranscriptionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.Text, resp.Text)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions/nope", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExportEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	sessionID := createSession(t, router, "")

	w := uploadAudio(t, router, sessionID, map[string]string{"detect_entities": "true"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("single transcription as JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions/"+created.ID+"/export?format=json", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "discovery_report.json")

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		assert.Equal(t, created.Text, decoded["text"])
	})

	t.Run("session-wide PDF", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export?format=pdf", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("default format is text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "--- hearing.mp3 ---")
	})

	t.Run("unsupported format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export?format=docx", nil)
		req.Header.Set(handlers.SessionHeader, sessionID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported_format")
	})
}

func TestProviderEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.ProviderListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "demo", resp.Default)
		require.Len(t, resp.Providers, 1)
		assert.Equal(t, "demo", resp.Providers[0].Name)
	})

	t.Run("get by name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/demo", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var info provider.ProviderInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "demo", info.Name)
	})

	t.Run("unknown name is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/whisperx", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.ProviderHealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Healthy)
		assert.Equal(t, "ok", resp.Results["demo"])
	})
}

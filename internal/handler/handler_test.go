package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/karwash91/my-chatbot/internal/ai"
	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/model"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
	"github.com/karwash91/my-chatbot/internal/queue"
	"github.com/karwash91/my-chatbot/internal/service"
	"github.com/karwash91/my-chatbot/internal/store"
)

type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vec, nil
}

func (s *stubEmbedder) ModelName() string { return "stub" }

type stubGenerator struct {
	answer string
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, req *ai.GenerateRequest) (string, error) {
	return s.answer, s.err
}

func setupRouter(t *testing.T, gen ai.IGenerator, records ...model.ChunkRecord) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files, err := filestore.New(filestore.Config{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	st := store.NewMemoryStore()
	for i := range records {
		require.NoError(t, st.Put(context.Background(), &records[i]))
	}

	uploadService := service.NewUploadService(files, queue.NewMemoryQueue())
	queryService := service.NewQueryService(&stubEmbedder{vec: []float32{1, 0}}, gen, st, service.QueryConfig{TopK: 3})

	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1"), RouterDeps{
		Upload: NewUploadHandler(uploadService),
		Query:  NewQueryHandler(queryService),
	})
	return engine
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestUploadHandler_Success(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{})

	rec := doJSON(engine, http.MethodPost, "/api/v1/documents/upload",
		`{"filename":"a.txt","content":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "file uploaded and ingest job queued", resp["message"])
	require.NotEmpty(t, resp["doc_id"])
	require.Equal(t, resp["doc_id"]+"/a.txt", resp["s3_key"])
}

func TestUploadHandler_MissingFields(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{})

	for _, body := range []string{
		`{"filename":"a.txt"}`,
		`{"content":"hello"}`,
		`{}`,
		`not json`,
	} {
		rec := doJSON(engine, http.MethodPost, "/api/v1/documents/upload", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		require.Contains(t, rec.Body.String(), "error")
	}
}

func TestQueryHandler_Success(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{answer: "grounded answer"},
		model.ChunkRecord{DocID: "d", ChunkID: "chunk-0", Text: "ctx text", Filename: "a.txt", Embedding: []float32{1, 0}},
	)

	rec := doJSON(engine, http.MethodPost, "/api/v1/chat/query", `{"query":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "grounded answer", resp.Answer)
	require.Len(t, resp.Context, 1)
	require.Equal(t, "ctx text", resp.Context[0].Text)
	require.Equal(t, "a.txt", resp.Context[0].Filename)
}

func TestQueryHandler_MissingQuery(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{})

	rec := doJSON(engine, http.MethodPost, "/api/v1/chat/query", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestQueryHandler_MalformedGenerationResponse(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{err: appErr.ErrMalformedResponse},
		model.ChunkRecord{DocID: "d", ChunkID: "chunk-0", Text: "ctx", Filename: "f", Embedding: []float32{1, 0}},
	)

	rec := doJSON(engine, http.MethodPost, "/api/v1/chat/query", `{"query":"hi"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestHealthz(t *testing.T) {
	engine := setupRouter(t, &stubGenerator{})
	rec := doJSON(engine, http.MethodGet, "/api/v1/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/model"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
	"github.com/karwash91/my-chatbot/internal/store"
)

func putObject(t *testing.T, files filestore.Store, key string, data []byte) {
	t.Helper()
	require.NoError(t, files.Save(context.Background(), key, bytes.NewReader(data), int64(len(data))))
}

func TestIngestService_ChunksEmbedsAndStores(t *testing.T) {
	files := newLocalFileStore(t)
	words := make([]string, 7)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	putObject(t, files, "doc-1/sample.txt", []byte(strings.Join(words, " ")))

	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	st := store.NewMemoryStore()
	svc := NewIngestService(files, embedder, st, 3)

	err := svc.Process(context.Background(), &model.IngestJob{
		DocID:    "doc-1",
		S3Key:    "doc-1/sample.txt",
		Filename: "sample.txt",
	})
	require.NoError(t, err)
	require.Equal(t, 3, embedder.calls)

	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "chunk-0", records[0].ChunkID)
	require.Equal(t, "chunk-1", records[1].ChunkID)
	require.Equal(t, "chunk-2", records[2].ChunkID)
	require.Equal(t, "word0 word1 word2", records[0].Text)
	require.Equal(t, "word6", records[2].Text)
	for _, rec := range records {
		require.Equal(t, "doc-1", rec.DocID)
		require.Equal(t, "sample.txt", rec.Filename)
		require.Equal(t, []float32{0.1, 0.2}, rec.Embedding)
	}
}

func TestIngestService_UnwrapsDoubleEncodedText(t *testing.T) {
	files := newLocalFileStore(t)
	// a JSON string literal, as produced by `jq -Rs .`
	putObject(t, files, "doc-2/esc.txt", []byte(`"line one\nline two"`))

	st := store.NewMemoryStore()
	svc := NewIngestService(files, &fakeEmbedder{vec: []float32{1}}, st, 500)

	require.NoError(t, svc.Process(context.Background(), &model.IngestJob{
		DocID: "doc-2", S3Key: "doc-2/esc.txt", Filename: "esc.txt",
	}))

	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "line one line two", records[0].Text)
}

func TestIngestService_ReplacesInvalidUTF8(t *testing.T) {
	files := newLocalFileStore(t)
	putObject(t, files, "doc-3/bad.txt", []byte{'o', 'k', ' ', 0xff, 0xfe, ' ', 'e', 'n', 'd'})

	st := store.NewMemoryStore()
	svc := NewIngestService(files, &fakeEmbedder{vec: []float32{1}}, st, 500)

	require.NoError(t, svc.Process(context.Background(), &model.IngestJob{
		DocID: "doc-3", S3Key: "doc-3/bad.txt", Filename: "bad.txt",
	}))

	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Contains(t, records[0].Text, "ok")
	require.Contains(t, records[0].Text, "end")
	require.Contains(t, records[0].Text, "�")
}

func TestIngestService_PartialFailureKeepsEarlierChunks(t *testing.T) {
	files := newLocalFileStore(t)
	putObject(t, files, "doc-4/two.txt", []byte("a b c d"))

	embedder := &failSecondEmbedder{vec: []float32{1}}
	st := store.NewMemoryStore()
	svc := NewIngestService(files, embedder, st, 2)

	err := svc.Process(context.Background(), &model.IngestJob{
		DocID: "doc-4", S3Key: "doc-4/two.txt", Filename: "two.txt",
	})
	require.ErrorIs(t, err, appErr.ErrEmbedding)

	records, scanErr := st.ScanAll(context.Background())
	require.NoError(t, scanErr)
	require.Len(t, records, 1)
	require.Equal(t, "chunk-0", records[0].ChunkID)
}

func TestIngestService_MissingObjectFails(t *testing.T) {
	svc := NewIngestService(newLocalFileStore(t), &fakeEmbedder{}, store.NewMemoryStore(), 500)
	err := svc.Process(context.Background(), &model.IngestJob{
		DocID: "doc-x", S3Key: "doc-x/missing.txt", Filename: "missing.txt",
	})
	require.Error(t, err)
}

type failSecondEmbedder struct {
	vec   []float32
	calls int
}

func (f *failSecondEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls > 1 {
		return nil, appErr.ErrEmbedding
	}
	return f.vec, nil
}

func (f *failSecondEmbedder) ModelName() string { return "fail-second" }

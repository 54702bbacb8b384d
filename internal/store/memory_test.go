package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karwash91/my-chatbot/internal/model"
)

func TestMemoryStore_PutScanRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	rec := model.ChunkRecord{
		DocID:     "doc-1",
		ChunkID:   "chunk-0",
		Text:      "some text",
		Filename:  "file.txt",
		Embedding: []float32{0.25, -0.5, 1},
	}
	require.NoError(t, st.Put(context.Background(), &rec))

	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, rec, records[0])
}

func TestMemoryStore_UpsertByKey(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Put(context.Background(), &model.ChunkRecord{
		DocID: "doc-1", ChunkID: "chunk-0", Text: "old",
	}))
	require.NoError(t, st.Put(context.Background(), &model.ChunkRecord{
		DocID: "doc-1", ChunkID: "chunk-1", Text: "other",
	}))
	require.NoError(t, st.Put(context.Background(), &model.ChunkRecord{
		DocID: "doc-1", ChunkID: "chunk-0", Text: "new",
	}))

	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "new", records[0].Text)
	require.Equal(t, "other", records[1].Text)
}

func TestMemoryStore_ScanOrderStable(t *testing.T) {
	st := NewMemoryStore()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		require.NoError(t, st.Put(context.Background(), &model.ChunkRecord{DocID: "d", ChunkID: id}))
	}
	records, err := st.ScanAll(context.Background())
	require.NoError(t, err)
	for i, id := range ids {
		require.Equal(t, id, records[i].ChunkID)
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "bogus"})
	require.Error(t, err)
	_, err = New(Config{})
	require.Error(t, err)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/karwash91/my-chatbot/internal/ai"
	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/model"
	"github.com/karwash91/my-chatbot/internal/store"
)

type IngestService struct {
	files     filestore.Store
	embedder  ai.IEmbedder
	store     store.Store
	chunkSize int
}

func NewIngestService(files filestore.Store, embedder ai.IEmbedder, st store.Store, chunkSize int) *IngestService {
	if chunkSize <= 0 {
		chunkSize = ai.DefaultChunkSize
	}
	return &IngestService{files: files, embedder: embedder, store: st, chunkSize: chunkSize}
}

// Process runs one job through fetch, decode, chunk, embed, and store. Each
// chunk is persisted independently; a failure mid-document leaves the chunks
// stored so far in place and reports the job for redelivery.
func (s *IngestService) Process(ctx context.Context, job *model.IngestJob) error {
	logger := logutil.GetLogger(ctx).With(
		zap.String("doc_id", job.DocID),
		zap.String("s3_key", job.S3Key),
	)

	rc, err := s.files.Open(ctx, job.S3Key)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	text := decodeContent(raw)
	logger.Info("document fetched", zap.Int("bytes", len(raw)))

	idx := 0
	for chunk := range ai.Chunks(text, s.chunkSize) {
		emb, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", idx, err)
		}
		rec := &model.ChunkRecord{
			DocID:     job.DocID,
			ChunkID:   fmt.Sprintf("chunk-%d", idx),
			Text:      chunk,
			Filename:  job.Filename,
			Embedding: emb,
		}
		if err := s.store.Put(ctx, rec); err != nil {
			return fmt.Errorf("store chunk %d: %w", idx, err)
		}
		logger.Debug("chunk stored", zap.String("chunk_id", rec.ChunkID))
		idx++
	}
	logger.Info("document ingested", zap.Int("chunks", idx))
	return nil
}

// decodeContent interprets raw bytes as UTF-8 text, replacing invalid
// sequences instead of failing. Files uploaded as JSON-escaped text (e.g. via
// `jq -Rs .`) arrive double-encoded; exactly one level of string literal is
// unwrapped, anything else passes through as literal text.
func decodeContent(raw []byte) string {
	decoded := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	var unwrapped string
	if err := json.Unmarshal([]byte(decoded), &unwrapped); err == nil {
		return unwrapped
	}
	return decoded
}

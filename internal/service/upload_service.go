package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/model"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
	"github.com/karwash91/my-chatbot/internal/queue"
)

type UploadService struct {
	files filestore.Store
	queue queue.Queue
}

func NewUploadService(files filestore.Store, q queue.Queue) *UploadService {
	return &UploadService{files: files, queue: q}
}

// Upload stores the document content and enqueues one ingestion job for it.
// Content is always treated as literal UTF-8 text; no base64 detection.
func (s *UploadService) Upload(ctx context.Context, filename string, content string) (*model.UploadResult, error) {
	if filename == "" || content == "" {
		return nil, fmt.Errorf("%w: missing filename or content", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("filename", filename))

	docID := uuid.NewString()
	key := docID + "/" + filename
	data := []byte(content)
	if err := s.files.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	logger.Info("document stored", zap.String("doc_id", docID), zap.Int("size", len(data)))

	job := model.IngestJob{DocID: docID, S3Key: key, Filename: filename}
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode ingest job: %w", err)
	}
	if err := s.queue.Send(ctx, string(body)); err != nil {
		return nil, fmt.Errorf("enqueue ingest job: %w", err)
	}
	logger.Info("ingest job queued", zap.String("doc_id", docID))
	return &model.UploadResult{DocID: docID, S3Key: key}, nil
}

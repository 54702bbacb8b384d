package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/karwash91/my-chatbot/internal/model"
	"github.com/karwash91/my-chatbot/internal/queue"
	"github.com/karwash91/my-chatbot/internal/service"
)

type Config struct {
	BatchSize int32
	Wait      time.Duration
}

// Worker long-polls the ingest queue and runs each job to completion.
// Successful messages are deleted; failed ones are left for the broker to
// redeliver. Malformed bodies are deleted immediately since redelivery can
// never make them parseable.
type Worker struct {
	queue  queue.Queue
	ingest *service.IngestService
	cfg    Config
}

func New(q queue.Queue, ingest *service.IngestService, cfg Config) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 20 * time.Second
	}
	return &Worker{queue: q, ingest: ingest, cfg: cfg}
}

func (w *Worker) Run(ctx context.Context) {
	logger := logutil.GetLogger(ctx)
	logger.Info("ingest worker started",
		zap.Int32("batch_size", w.cfg.BatchSize),
		zap.Duration("wait", w.cfg.Wait),
	)
	for {
		if ctx.Err() != nil {
			logger.Info("ingest worker stopping")
			return
		}
		messages, err := w.queue.Receive(ctx, w.cfg.BatchSize, w.cfg.Wait)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("ingest worker stopping")
				return
			}
			logger.Error("receive ingest messages failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		for _, msg := range messages {
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg queue.Message) {
	logger := logutil.GetLogger(ctx)
	var job model.IngestJob
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		logger.Error("discarding malformed ingest message", zap.Error(err))
		w.delete(ctx, msg)
		return
	}
	if err := w.ingest.Process(ctx, &job); err != nil {
		// Left on the queue; the broker redelivers or dead-letters it.
		logger.Error("ingest job failed",
			zap.String("doc_id", job.DocID),
			zap.Error(err),
		)
		return
	}
	w.delete(ctx, msg)
}

func (w *Worker) delete(ctx context.Context, msg queue.Message) {
	if err := w.queue.Delete(ctx, msg.Receipt); err != nil {
		logutil.GetLogger(ctx).Error("delete ingest message failed", zap.Error(err))
	}
}

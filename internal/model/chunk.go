package model

// ChunkRecord is the persisted unit of retrieval: one embedded span of an
// uploaded document, keyed by (doc_id, chunk_id).
type ChunkRecord struct {
	DocID     string    `json:"doc_id" dynamodbav:"doc_id"`
	ChunkID   string    `json:"chunk_id" dynamodbav:"chunk_id"`
	Text      string    `json:"text" dynamodbav:"text"`
	Filename  string    `json:"filename" dynamodbav:"filename"`
	Embedding []float32 `json:"embedding" dynamodbav:"embedding"`
}

// ScoredChunk lives only for the duration of one query. The score is kept for
// ranking but never serialized to clients.
type ScoredChunk struct {
	Text     string  `json:"text"`
	Filename string  `json:"filename"`
	Score    float32 `json:"-"`
}

type QueryResult struct {
	Answer  string        `json:"answer"`
	Context []ScoredChunk `json:"context"`
}

// IngestJob is the queue message linking an uploaded object to its ingestion.
type IngestJob struct {
	DocID    string `json:"doc_id"`
	S3Key    string `json:"s3_key"`
	Filename string `json:"filename"`
}

type UploadResult struct {
	DocID string `json:"doc_id"`
	S3Key string `json:"s3_key"`
}

package service

import (
	"math"
	"sort"

	"github.com/karwash91/my-chatbot/internal/model"
)

// cosineSimilarity returns 0 when the vectors differ in length, are empty, or
// either has zero norm. "No signal" is not an error.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// rankChunks scores every usable record against the query vector and returns
// at most topK results at or above minScore, highest first. Records with empty
// text or embedding are skipped. Ties keep their scan order, so repeated runs
// over the same scan produce the same ranking.
func rankChunks(query []float32, records []model.ChunkRecord, topK int, minScore float32) []model.ScoredChunk {
	scored := make([]model.ScoredChunk, 0, len(records))
	for _, rec := range records {
		if rec.Text == "" || len(rec.Embedding) == 0 {
			continue
		}
		scored = append(scored, model.ScoredChunk{
			Text:     rec.Text,
			Filename: rec.Filename,
			Score:    cosineSimilarity(query, rec.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	result := make([]model.ScoredChunk, 0, topK)
	for _, sc := range scored {
		if sc.Score < minScore {
			break
		}
		result = append(result, sc)
		if len(result) == topK {
			break
		}
	}
	return result
}

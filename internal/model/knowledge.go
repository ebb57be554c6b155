package model

import (
	"encoding/json"
	"time"
)

// KnowledgeChunk is the indexed unit of the knowledge base: one word-window
// slice of a document plus its embedding and sidecar metadata.
// Embedding is stored as a JSON array of float32 for portability.
type KnowledgeChunk struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChunkID     string    `gorm:"size:256;not null;index" json:"chunk_id"` // "{doc_id}_chunk_{i}"
	DocID       string    `gorm:"size:128;not null;index" json:"doc_id"`
	Title       string    `gorm:"size:512" json:"title"`
	URL         string    `gorm:"size:1024" json:"url"`
	Category    string    `gorm:"size:128;index" json:"category"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Embedding   string    `gorm:"type:mediumtext" json:"-"`
	ChunkIndex  int       `gorm:"not null" json:"chunk_index"`
	TotalChunks int       `gorm:"not null" json:"total_chunks"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *KnowledgeChunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *KnowledgeChunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}

// Document is the caller-supplied unit of knowledge content.
type Document struct {
	ID       string `json:"id" binding:"required"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// IngestStats summarizes one ingest call.
type IngestStats struct {
	DocumentsIngested int   `json:"documents_ingested"`
	ChunksCreated     int   `json:"chunks_created"`
	TotalDocuments    int64 `json:"total_documents"`
}

// SearchResult is an ephemeral per-query ranking entry. Relevance is a
// [0,1]-clamped transform of vector distance, not a calibrated probability.
type SearchResult struct {
	Content     string  `json:"content"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Category    string  `json:"category"`
	Relevance   float64 `json:"relevance"`
	ChunkIndex  int     `json:"chunk_index"`
	TotalChunks int     `json:"total_chunks"`
}

// KnowledgeStats describes the index. UniqueDocuments and Categories are
// estimated from a bounded sample of the index, not exact counts.
type KnowledgeStats struct {
	TotalChunks     int64          `json:"total_chunks"`
	UniqueDocuments int            `json:"unique_documents"`
	Categories      map[string]int `json:"categories"`
	EmbeddingModel  string         `json:"embedding_model"`
}

// DocumentSummary is a deduplicated per-document view over sampled chunks.
type DocumentSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Chunks   int    `json:"chunks"`
}

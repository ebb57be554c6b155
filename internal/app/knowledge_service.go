package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"knowledge-assist/internal/ai"
	"knowledge-assist/internal/config"
	"knowledge-assist/internal/model"
)

const embeddingBatchSize = 10 // embedding APIs often limit batch size

var (
	ErrInvalidInput = errors.New("invalid input")
)

// ChunkStore is the persistence surface the retrieval engine needs.
type ChunkStore interface {
	CreateBatch(chunks []model.KnowledgeChunk) error
	Count() (int64, error)
	Sample(limit int) ([]model.KnowledgeChunk, error)
	Candidates(category string) ([]model.KnowledgeChunk, error)
	DeleteByDocID(docID string) (int64, error)
	Reset() error
}

// SearchCache memoizes query results between index mutations. A nil cache is
// valid: every lookup then goes straight to the index.
type SearchCache interface {
	Get(ctx context.Context, query string, topK int, category string) ([]model.SearchResult, bool)
	Set(ctx context.Context, query string, topK int, category string, results []model.SearchResult)
	Invalidate(ctx context.Context)
}

// KnowledgeService is the retrieval engine: it turns raw documents into a
// searchable chunk index and answers nearest-neighbor queries against it.
type KnowledgeService struct {
	chunks   ChunkStore
	embedder ai.Embedder
	cache    SearchCache

	chunkSize    int
	chunkOverlap int
	topKDefault  int
	sampleLimit  int
}

func NewKnowledgeService(chunks ChunkStore, embedder ai.Embedder, cache SearchCache, cfg config.KnowledgeConfig) (*KnowledgeService, error) {
	if chunks == nil || embedder == nil {
		return nil, errors.New("knowledge service requires a chunk store and an embedder")
	}
	if cfg.ChunkSize-cfg.ChunkOverlap <= 0 {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	topK := cfg.TopKDefault
	if topK <= 0 {
		topK = 5
	}
	sampleLimit := cfg.StatsSampleLimit
	if sampleLimit <= 0 {
		sampleLimit = 100
	}
	return &KnowledgeService{
		chunks:       chunks,
		embedder:     embedder,
		cache:        cache,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		topKDefault:  topK,
		sampleLimit:  sampleLimit,
	}, nil
}

// Ingest chunks each document, embeds every chunk with the title prepended
// for topical grounding, and appends the chunks to the index.
//
// Re-ingesting an existing doc id appends new chunks next to the old ones;
// callers that want replacement must delete first. Known limitation, kept.
func (s *KnowledgeService) Ingest(ctx context.Context, documents []model.Document) (*model.IngestStats, error) {
	docCount := 0
	chunkCount := 0

	for _, doc := range documents {
		if doc.Content == "" {
			continue
		}

		pieces := chunkWords(doc.Content, s.chunkSize, s.chunkOverlap)

		category := doc.Category
		if category == "" {
			category = "General"
		}

		rows := make([]model.KnowledgeChunk, 0, len(pieces))
		embedTexts := make([]string, 0, len(pieces))
		for _, piece := range pieces {
			embedTexts = append(embedTexts, doc.Title+"\n\n"+piece)
		}

		var embeddings [][]float32
		for i := 0; i < len(embedTexts); i += embeddingBatchSize {
			end := i + embeddingBatchSize
			if end > len(embedTexts) {
				end = len(embedTexts)
			}
			batch, err := s.embedder.EmbedBatch(ctx, embedTexts[i:end])
			if err != nil {
				return nil, fmt.Errorf("embed chunks for document %q failed: %w", doc.ID, err)
			}
			embeddings = append(embeddings, batch...)
		}
		if len(embeddings) != len(pieces) {
			return nil, fmt.Errorf("embedding count mismatch for document %q", doc.ID)
		}

		for i, piece := range pieces {
			row := model.KnowledgeChunk{
				ChunkID:     fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				DocID:       doc.ID,
				Title:       doc.Title,
				URL:         doc.URL,
				Category:    category,
				Content:     piece,
				ChunkIndex:  i,
				TotalChunks: len(pieces),
			}
			row.SetEmbedding(embeddings[i])
			rows = append(rows, row)
		}
		if err := s.chunks.CreateBatch(rows); err != nil {
			return nil, err
		}

		chunkCount += len(rows)
		docCount++
	}

	total, err := s.chunks.Count()
	if err != nil {
		return nil, err
	}

	if chunkCount > 0 && s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return &model.IngestStats{
		DocumentsIngested: docCount,
		ChunksCreated:     chunkCount,
		TotalDocuments:    total,
	}, nil
}

// Search embeds the query (no title prefix) and ranks candidate chunks by
// cosine distance. Relevance is max(0, 1-distance): 0 for very dissimilar
// results, and scores do not sum to 1 across results.
func (s *KnowledgeService) Search(ctx context.Context, query string, topK int, category string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	if topK <= 0 {
		topK = s.topKDefault
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query, topK, category); ok {
			return cached, nil
		}
	}

	candidates, err := s.chunks.Candidates(category)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []model.SearchResult{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	type scored struct {
		chunk     *model.KnowledgeChunk
		relevance float64
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		distance := 1 - cosineSimilarity(queryVec, candidates[i].EmbeddingVector())
		relevance := 1 - distance
		if relevance < 0 {
			relevance = 0
		}
		ranked = append(ranked, scored{chunk: &candidates[i], relevance: relevance})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].relevance > ranked[j].relevance })

	// Clamp a copy: the cache key must use the requested topK, or lookups
	// for over-sized requests would never match what Set stored.
	limit := topK
	if limit > len(ranked) {
		limit = len(ranked)
	}
	results := make([]model.SearchResult, 0, limit)
	for _, entry := range ranked[:limit] {
		results = append(results, model.SearchResult{
			Content:     entry.chunk.Content,
			Title:       entry.chunk.Title,
			URL:         entry.chunk.URL,
			Category:    entry.chunk.Category,
			Relevance:   round4(entry.relevance),
			ChunkIndex:  entry.chunk.ChunkIndex,
			TotalChunks: entry.chunk.TotalChunks,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, topK, category, results)
	}
	return results, nil
}

// Stats reports an exact chunk count and sampled document/category
// estimates. The sample bound keeps stats cheap on large indexes; estimates
// are not exact once the index outgrows the sample.
func (s *KnowledgeService) Stats(ctx context.Context) (*model.KnowledgeStats, error) {
	count, err := s.chunks.Count()
	if err != nil {
		return nil, err
	}

	stats := &model.KnowledgeStats{
		TotalChunks:    count,
		Categories:     map[string]int{},
		EmbeddingModel: s.embedder.ModelName(),
	}
	if count == 0 {
		return stats, nil
	}

	sample, err := s.chunks.Sample(s.sampleLimit)
	if err != nil {
		return nil, err
	}
	titles := map[string]struct{}{}
	for _, chunk := range sample {
		category := chunk.Category
		if category == "" {
			category = "Unknown"
		}
		stats.Categories[category]++
		titles[chunk.Title] = struct{}{}
	}
	stats.UniqueDocuments = len(titles)
	return stats, nil
}

// ListDocuments deduplicates sampled chunks by title within the first limit
// raw rows scanned — not limit unique documents. Same sampling caveat as
// Stats.
func (s *KnowledgeService) ListDocuments(ctx context.Context, limit int) ([]model.DocumentSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	sample, err := s.chunks.Sample(limit)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	documents := make([]model.DocumentSummary, 0)
	for _, chunk := range sample {
		if _, ok := seen[chunk.Title]; ok {
			continue
		}
		seen[chunk.Title] = struct{}{}
		documents = append(documents, model.DocumentSummary{
			ID:       chunk.DocID,
			Title:    chunk.Title,
			URL:      chunk.URL,
			Category: chunk.Category,
			Chunks:   chunk.TotalChunks,
		})
	}
	return documents, nil
}

// DeleteDocument removes all chunks whose doc id matches. Backend errors are
// logged and reported as not-found rather than propagated, so a false return
// conflates the two cases.
func (s *KnowledgeService) DeleteDocument(ctx context.Context, docID string) bool {
	removed, err := s.chunks.DeleteByDocID(docID)
	if err != nil {
		log.Printf("delete document %q failed: %v", docID, err)
		return false
	}
	if removed == 0 {
		return false
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return true
}

// Clear drops and recreates the index, losing all documents irreversibly.
func (s *KnowledgeService) Clear(ctx context.Context) error {
	if err := s.chunks.Reset(); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

// chunkWords splits text into overlapping word windows. Boundaries are pure
// word counts, so a chunk may split mid-sentence.
func chunkWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	stride := size - overlap

	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

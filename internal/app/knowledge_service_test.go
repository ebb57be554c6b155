package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-assist/internal/config"
	"knowledge-assist/internal/model"
)

// memStore is an in-memory ChunkStore for tests.
type memStore struct {
	rows   []model.KnowledgeChunk
	nextID uint
}

func (s *memStore) CreateBatch(chunks []model.KnowledgeChunk) error {
	for _, c := range chunks {
		s.nextID++
		c.ID = s.nextID
		s.rows = append(s.rows, c)
	}
	return nil
}

func (s *memStore) Count() (int64, error) { return int64(len(s.rows)), nil }

func (s *memStore) Sample(limit int) ([]model.KnowledgeChunk, error) {
	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	out := make([]model.KnowledgeChunk, limit)
	copy(out, s.rows[:limit])
	return out, nil
}

func (s *memStore) Candidates(category string) ([]model.KnowledgeChunk, error) {
	var out []model.KnowledgeChunk
	for _, c := range s.rows {
		if category == "" || c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) DeleteByDocID(docID string) (int64, error) {
	var kept []model.KnowledgeChunk
	var removed int64
	for _, c := range s.rows {
		if c.DocID == docID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.rows = kept
	return removed, nil
}

func (s *memStore) Reset() error {
	s.rows = nil
	return nil
}

// keywordEmbedder maps text onto axes by keyword presence, so similarity is
// fully predictable: texts sharing a keyword are identical on that axis.
type keywordEmbedder struct{}

var embedKeywords = []string{"billing", "network", "password"}

func (keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(embedKeywords)+1)
	for i, kw := range embedKeywords {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	vec[len(embedKeywords)] = 0.001 // keep the norm non-zero
	return vec, nil
}

func (e keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (keywordEmbedder) ModelName() string { return "keyword-test-embedder" }

// recordingCache counts cache traffic and serves what was stored.
type recordingCache struct {
	store       map[string][]model.SearchResult
	gets, sets  int
	hits        int
	invalidates int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: map[string][]model.SearchResult{}}
}

func (c *recordingCache) key(query string, topK int, category string) string {
	return fmt.Sprintf("%s|%d|%s", query, topK, category)
}

func (c *recordingCache) Get(ctx context.Context, query string, topK int, category string) ([]model.SearchResult, bool) {
	c.gets++
	results, ok := c.store[c.key(query, topK, category)]
	if ok {
		c.hits++
	}
	return results, ok
}

func (c *recordingCache) Set(ctx context.Context, query string, topK int, category string, results []model.SearchResult) {
	c.sets++
	c.store[c.key(query, topK, category)] = results
}

func (c *recordingCache) Invalidate(ctx context.Context) {
	c.invalidates++
	c.store = map[string][]model.SearchResult{}
}

func testConfig() config.KnowledgeConfig {
	return config.KnowledgeConfig{
		ChunkSize:        500,
		ChunkOverlap:     50,
		TopKDefault:      5,
		StatsSampleLimit: 100,
	}
}

func newTestService(t *testing.T, cache SearchCache) (*KnowledgeService, *memStore) {
	t.Helper()
	store := &memStore{}
	svc, err := NewKnowledgeService(store, keywordEmbedder{}, cache, testConfig())
	require.NoError(t, err)
	return svc, store
}

func wordsOfLength(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNewKnowledgeServiceRejectsBadStride(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 50
	cfg.ChunkOverlap = 50
	_, err := NewKnowledgeService(&memStore{}, keywordEmbedder{}, nil, cfg)
	assert.Error(t, err)
}

func TestChunkWords(t *testing.T) {
	t.Run("stride past text end still opens a window", func(t *testing.T) {
		chunks := chunkWords(wordsOfLength(460), 500, 50)
		// stride 450: a second window starts at word 450 even though the
		// first already covers the whole text
		require.Len(t, chunks, 2)
		assert.Equal(t, 460, len(strings.Fields(chunks[0])))
		assert.Equal(t, 10, len(strings.Fields(chunks[1])))
	})

	t.Run("overlapping windows", func(t *testing.T) {
		chunks := chunkWords(wordsOfLength(1000), 500, 50)
		require.Len(t, chunks, 3)

		first := strings.Fields(chunks[0])
		second := strings.Fields(chunks[1])
		third := strings.Fields(chunks[2])
		assert.Len(t, first, 500)
		assert.Len(t, second, 500)
		assert.Len(t, third, 100)

		// last 50 words of a chunk open the next one
		assert.Equal(t, first[450:], second[:50])
		assert.Equal(t, second[450:], third[:50])
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, chunkWords("", 500, 50))
		assert.Empty(t, chunkWords("   \n\t  ", 500, 50))
	})

	t.Run("exact multiple of stride", func(t *testing.T) {
		chunks := chunkWords(wordsOfLength(900), 500, 50)
		require.Len(t, chunks, 2)
		assert.Len(t, strings.Fields(chunks[1]), 450)
	})
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("nil batch is a no-op", func(t *testing.T) {
		svc, store := newTestService(t, nil)
		_, err := svc.Ingest(ctx, []model.Document{
			{ID: "doc-1", Title: "Billing FAQ", Content: "billing basics"},
		})
		require.NoError(t, err)

		stats, err := svc.Ingest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.DocumentsIngested)
		assert.Equal(t, 0, stats.ChunksCreated)
		assert.Equal(t, int64(1), stats.TotalDocuments)
		assert.Len(t, store.rows, 1)
	})

	t.Run("skips empty documents", func(t *testing.T) {
		svc, store := newTestService(t, nil)
		stats, err := svc.Ingest(ctx, []model.Document{
			{ID: "doc-1", Title: "Empty", Content: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, stats.DocumentsIngested)
		assert.Equal(t, 0, stats.ChunksCreated)
		assert.Empty(t, store.rows)
	})

	t.Run("defaults category and ids chunks", func(t *testing.T) {
		svc, store := newTestService(t, nil)
		stats, err := svc.Ingest(ctx, []model.Document{
			{ID: "doc-1", Title: "Billing FAQ", Content: "billing questions answered here"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DocumentsIngested)
		assert.Equal(t, 1, stats.ChunksCreated)
		assert.Equal(t, int64(1), stats.TotalDocuments)

		require.Len(t, store.rows, 1)
		row := store.rows[0]
		assert.Equal(t, "doc-1_chunk_0", row.ChunkID)
		assert.Equal(t, "General", row.Category)
		assert.Equal(t, 0, row.ChunkIndex)
		assert.Equal(t, 1, row.TotalChunks)
		assert.NotEmpty(t, row.EmbeddingVector())
	})

	t.Run("reingest appends instead of replacing", func(t *testing.T) {
		svc, store := newTestService(t, nil)
		doc := model.Document{ID: "doc-1", Title: "Billing FAQ", Content: "billing basics"}
		_, err := svc.Ingest(ctx, []model.Document{doc})
		require.NoError(t, err)
		_, err = svc.Ingest(ctx, []model.Document{doc})
		require.NoError(t, err)
		assert.Len(t, store.rows, 2)
	})

	t.Run("large document produces overlapping chunks", func(t *testing.T) {
		svc, store := newTestService(t, nil)
		stats, err := svc.Ingest(ctx, []model.Document{
			{ID: "doc-big", Title: "Manual", Content: wordsOfLength(1000), Category: "Guides"},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, stats.ChunksCreated)
		for i, row := range store.rows {
			assert.Equal(t, fmt.Sprintf("doc-big_chunk_%d", i), row.ChunkID)
			assert.Equal(t, 3, row.TotalChunks)
			assert.Equal(t, "Guides", row.Category)
		}
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *KnowledgeService) {
		t.Helper()
		_, err := svc.Ingest(ctx, []model.Document{
			{ID: "doc-bill", Title: "Billing Guide", URL: "/billing", Category: "Billing", Content: "how billing works"},
			{ID: "doc-net", Title: "Network Guide", URL: "/network", Category: "Network", Content: "network troubleshooting"},
		})
		require.NoError(t, err)
	}

	t.Run("blank query is invalid", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		_, err := svc.Search(ctx, "   ", 5, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty index returns empty results", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		results, err := svc.Search(ctx, "billing", 5, "")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ranks by similarity", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		seed(t, svc)

		results, err := svc.Search(ctx, "billing question", 5, "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Billing Guide", results[0].Title)
		assert.InDelta(t, 1.0, results[0].Relevance, 0.01)
		assert.Greater(t, results[0].Relevance, results[1].Relevance)
	})

	t.Run("clamps relevance at zero", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		seed(t, svc)

		results, err := svc.Search(ctx, "network outage", 5, "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.GreaterOrEqual(t, results[1].Relevance, 0.0)
	})

	t.Run("category filter is exact", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		seed(t, svc)

		results, err := svc.Search(ctx, "billing", 5, "Billing")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Billing", results[0].Category)

		results, err = svc.Search(ctx, "billing", 5, "billing")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("top k caps results and zero means default", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		seed(t, svc)

		results, err := svc.Search(ctx, "billing", 1, "")
		require.NoError(t, err)
		assert.Len(t, results, 1)

		results, err = svc.Search(ctx, "billing", 0, "")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestSearchCacheFlow(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	svc, _ := newTestService(t, cache)

	_, err := svc.Ingest(ctx, []model.Document{
		{ID: "doc-bill", Title: "Billing Guide", Category: "Billing", Content: "billing details"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidates)

	first, err := svc.Search(ctx, "billing", 5, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.Search(ctx, "billing", 5, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)

	// deleting bumps the namespace again
	assert.True(t, svc.DeleteDocument(ctx, "doc-bill"))
	assert.Equal(t, 2, cache.invalidates)
}

func TestSearchCachesUnderRequestedTopK(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	svc, _ := newTestService(t, cache)

	_, err := svc.Ingest(ctx, []model.Document{
		{ID: "doc-bill", Title: "Billing Guide", Category: "Billing", Content: "billing details"},
	})
	require.NoError(t, err)

	// top_k larger than the index: the clamp must not leak into the cache key
	first, err := svc.Search(ctx, "billing", 10, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Search(ctx, "billing", 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}

func TestStatsAndListDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalChunks)
	assert.Equal(t, "keyword-test-embedder", stats.EmbeddingModel)

	_, err = svc.Ingest(ctx, []model.Document{
		{ID: "doc-1", Title: "Billing Guide", Category: "Billing", Content: "billing"},
		{ID: "doc-2", Title: "Network Guide", Category: "Network", Content: wordsOfLength(1000)},
	})
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalChunks)
	assert.Equal(t, 2, stats.UniqueDocuments)
	assert.Equal(t, 1, stats.Categories["Billing"])
	assert.Equal(t, 3, stats.Categories["Network"])

	docs, err := svc.ListDocuments(ctx, 100)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Billing Guide", docs[0].Title)
	assert.Equal(t, "Network Guide", docs[1].Title)
	assert.Equal(t, 3, docs[1].Chunks)
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, nil)

	_, err := svc.Ingest(ctx, []model.Document{
		{ID: "doc-1", Title: "Billing Guide", Content: "billing"},
		{ID: "doc-2", Title: "Network Guide", Content: "network"},
	})
	require.NoError(t, err)

	assert.False(t, svc.DeleteDocument(ctx, "missing"))
	assert.True(t, svc.DeleteDocument(ctx, "doc-1"))
	assert.False(t, svc.DeleteDocument(ctx, "doc-1"))
	assert.Len(t, store.rows, 1)

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, store.rows)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}

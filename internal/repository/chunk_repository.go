package repository

import (
	"fmt"

	"gorm.io/gorm"

	"knowledge-assist/internal/model"
)

// ChunkRepository persists knowledge chunks in MySQL. The table is the
// durable "collection": reopening the same database resumes the same index.
type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(chunks []model.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create knowledge chunks batch failed: %w", err)
	}
	return nil
}

// Count returns the exact number of indexed chunks.
func (r *ChunkRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.KnowledgeChunk{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count knowledge chunks failed: %w", err)
	}
	return count, nil
}

// Sample returns up to limit chunk rows without their embedding payloads,
// in insertion order. Used for the sampled stats and document listing.
func (r *ChunkRepository) Sample(limit int) ([]model.KnowledgeChunk, error) {
	if limit <= 0 {
		return nil, nil
	}
	var chunks []model.KnowledgeChunk
	err := r.db.
		Select("id", "chunk_id", "doc_id", "title", "url", "category", "chunk_index", "total_chunks").
		Order("id").
		Limit(limit).
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("sample knowledge chunks failed: %w", err)
	}
	return chunks, nil
}

// Candidates returns all chunks eligible for similarity ranking, including
// embeddings. An empty category means no filter; matching is exact.
func (r *ChunkRepository) Candidates(category string) ([]model.KnowledgeChunk, error) {
	var chunks []model.KnowledgeChunk
	query := r.db
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list candidate chunks failed: %w", err)
	}
	return chunks, nil
}

// DeleteByDocID removes every chunk of the document and reports how many
// rows were removed.
func (r *ChunkRepository) DeleteByDocID(docID string) (int64, error) {
	result := r.db.Where("doc_id = ?", docID).Delete(&model.KnowledgeChunk{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete chunks by doc id failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Reset drops and recreates the chunk table, irreversibly losing all
// documents.
func (r *ChunkRepository) Reset() error {
	migrator := r.db.Migrator()
	if migrator.HasTable(&model.KnowledgeChunk{}) {
		if err := migrator.DropTable(&model.KnowledgeChunk{}); err != nil {
			return fmt.Errorf("drop chunk table failed: %w", err)
		}
	}
	if err := migrator.CreateTable(&model.KnowledgeChunk{}); err != nil {
		return fmt.Errorf("recreate chunk table failed: %w", err)
	}
	return nil
}

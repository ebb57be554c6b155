package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/app"
	"knowledge-assist/internal/model"
	"knowledge-assist/internal/platform/rabbitmq"
	"knowledge-assist/internal/transport/http/response"
)

type KnowledgeHandler struct {
	knowledge *app.KnowledgeService
	publisher *rabbitmq.DocumentPublisher
}

// NewKnowledgeHandler wires the retrieval engine and, optionally, the async
// ingest publisher. A nil publisher disables the async route.
func NewKnowledgeHandler(knowledge *app.KnowledgeService, publisher *rabbitmq.DocumentPublisher) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledge: knowledge,
		publisher: publisher,
	}
}

type searchRequest struct {
	Query    string `json:"query" binding:"required"`
	TopK     int    `json:"top_k"`
	Category string `json:"category"`
}

type ingestRequest struct {
	Documents []model.Document `json:"documents" binding:"required"`
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query is required")
		return
	}

	results, err := h.knowledge.Search(c.Request.Context(), req.Query, req.TopK, req.Category)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query must not be empty")
			return
		}
		log.Printf("knowledge search failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		return
	}

	response.OK(c, gin.H{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}

func (h *KnowledgeHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "documents are required")
		return
	}

	stats, err := h.knowledge.Ingest(c.Request.Context(), req.Documents)
	if err != nil {
		log.Printf("knowledge ingest failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed")
		return
	}
	response.OK(c, stats)
}

// IngestAsync enqueues the batch for the background worker instead of
// indexing inline. Returns 202 on enqueue.
func (h *KnowledgeHandler) IngestAsync(c *gin.Context) {
	if h.publisher == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "async ingest is not enabled")
		return
	}

	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "documents are required")
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), req.Documents); err != nil {
		log.Printf("enqueue ingest batch failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "enqueue failed")
		return
	}

	c.JSON(http.StatusAccepted, response.APIResponse{
		Code:    response.CodeOK,
		Message: "accepted",
		Data:    gin.H{"documents_enqueued": len(req.Documents)},
	})
}

func (h *KnowledgeHandler) Stats(c *gin.Context) {
	stats, err := h.knowledge.Stats(c.Request.Context())
	if err != nil {
		log.Printf("knowledge stats failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stats failed")
		return
	}
	response.OK(c, stats)
}

func (h *KnowledgeHandler) ListDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	documents, err := h.knowledge.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		log.Printf("list documents failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, gin.H{
		"documents": documents,
		"count":     len(documents),
	})
}

// DeleteDocument removes every chunk of a document. A not-found answer may
// also mean the backend failed; the engine folds both into one outcome.
func (h *KnowledgeHandler) DeleteDocument(c *gin.Context) {
	docID := c.Param("doc_id")
	if !h.knowledge.DeleteDocument(c.Request.Context(), docID) {
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, "document not found")
		return
	}
	response.OK(c, gin.H{"deleted": docID})
}

func (h *KnowledgeHandler) Clear(c *gin.Context) {
	if err := h.knowledge.Clear(c.Request.Context()); err != nil {
		log.Printf("clear knowledge base failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "clear failed")
		return
	}
	response.OK(c, gin.H{"cleared": true})
}

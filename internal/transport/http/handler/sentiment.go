package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/history"
	"knowledge-assist/internal/sentiment"
	"knowledge-assist/internal/transport/http/response"
)

type SentimentHandler struct {
	sentiment *sentiment.Service
	history   *history.Engine
}

func NewSentimentHandler(sentimentSvc *sentiment.Service, historyEngine *history.Engine) *SentimentHandler {
	return &SentimentHandler{
		sentiment: sentimentSvc,
		history:   historyEngine,
	}
}

type analyzeRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// Analyze classifies one text with the requested provider. Unknown provider
// names fall back to rule-based; empty text returns a neutral result rather
// than an error.
func (h *SentimentHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request body")
		return
	}
	response.OK(c, h.sentiment.Analyze(req.Text, req.Provider))
}

func (h *SentimentHandler) Providers(c *gin.Context) {
	response.OK(c, gin.H{"providers": h.sentiment.Providers()})
}

// History returns the synthetic interaction history for a customer. The days
// query parameter accepts 30, 60 or 90; anything else coerces to 90.
func (h *SentimentHandler) History(c *gin.Context) {
	customerID := c.Param("customer_id")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))
	response.OK(c, h.history.GetHistory(customerID, days))
}

func (h *SentimentHandler) Customers(c *gin.Context) {
	customers := h.history.DemoCustomers()
	response.OK(c, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

func (h *SentimentHandler) ResetHistory(c *gin.Context) {
	h.history.Reset()
	response.OK(c, gin.H{"reset": true})
}

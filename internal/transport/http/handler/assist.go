package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/app"
	"knowledge-assist/internal/transport/http/response"
)

type AssistHandler struct {
	assist *app.AssistService
}

func NewAssistHandler(assist *app.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

type suggestRequest struct {
	Conversation []app.ConversationMessage `json:"conversation" binding:"required"`
}

// Suggest builds agent response suggestions and knowledge cards for the
// latest customer turn of a conversation.
func (h *AssistHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "conversation is required")
		return
	}

	result, err := h.assist.Suggest(c.Request.Context(), req.Conversation)
	if err != nil {
		log.Printf("assist suggest failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "suggest failed")
		return
	}
	response.OK(c, result)
}

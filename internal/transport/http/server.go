package http

import (
	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/bootstrap"
	"knowledge-assist/internal/transport/http/handler"
	"knowledge-assist/internal/transport/http/middleware"
)

// NewRouter assembles the gin engine. Destructive routes sit behind the
// admin JWT; everything else is open, as expected of a demo backend.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env)
	authHandler := handler.NewAuthHandler(app.Auth)
	knowledgeHandler := handler.NewKnowledgeHandler(app.Knowledge, app.Publisher)
	sentimentHandler := handler.NewSentimentHandler(app.Sentiment, app.History)
	assistHandler := handler.NewAssistHandler(app.Assist)

	router.GET("/healthz", healthHandler.Health)
	router.POST("/api/auth/token", authHandler.Token)

	knowledgeGroup := router.Group("/api/knowledge")
	knowledgeGroup.POST("/search", knowledgeHandler.Search)
	knowledgeGroup.POST("/ingest", knowledgeHandler.Ingest)
	knowledgeGroup.POST("/ingest-async", knowledgeHandler.IngestAsync)
	knowledgeGroup.GET("/stats", knowledgeHandler.Stats)
	knowledgeGroup.GET("/documents", knowledgeHandler.ListDocuments)

	sentimentGroup := router.Group("/api/sentiment")
	sentimentGroup.POST("/analyze", sentimentHandler.Analyze)
	sentimentGroup.GET("/providers", sentimentHandler.Providers)
	sentimentGroup.GET("/history/:customer_id", sentimentHandler.History)
	sentimentGroup.GET("/customers", sentimentHandler.Customers)

	router.POST("/api/assist/suggest", assistHandler.Suggest)

	adminGroup := router.Group("/api", middleware.AdminJWT(app.Config.Auth.JWTSecret))
	adminGroup.DELETE("/knowledge/documents/:doc_id", knowledgeHandler.DeleteDocument)
	adminGroup.POST("/knowledge/clear", knowledgeHandler.Clear)
	adminGroup.POST("/sentiment/reset-history", sentimentHandler.ResetHistory)

	return router
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moxuz/gemchat/internal/conversation"
)

const defaultBaseURL = "http://localhost:8000"

// ChatHandler exposes the conversation store over HTTP.
type ChatHandler struct {
	store     *conversation.Store
	outputDir string
	logger    *zap.SugaredLogger
}

func NewChatHandler(store *conversation.Store, outputDir string, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{store: store, outputDir: outputDir, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.HandleChat)
	router.GET("/conversations", h.HandleListConversations)
	router.GET("/conversations/:id", h.HandleGetConversation)
	router.POST("/conversations/:id/reset", h.HandleResetConversation)
	router.DELETE("/conversations/:id", h.HandleDeleteConversation)
	router.GET("/images/:filename", h.HandleGetImage)
}

type chatRequestPayload struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

type chatResponsePayload struct {
	ConversationID string   `json:"conversation_id"`
	Text           *string  `json:"text"`
	ImageURLs      []string `json:"image_urls"`
	Success        bool     `json:"success"`
	Error          string   `json:"error,omitempty"`
}

type historyEntryPayload struct {
	Role      conversation.Role `json:"role"`
	Content   *string           `json:"content"`
	ImageURLs []string          `json:"image_urls,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var payload chatRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
		return
	}

	result, err := h.store.SendMessage(c.Request.Context(), payload.ConversationID, payload.Message)
	if err != nil {
		h.logger.Warnf("failed to start conversation: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start conversation", "detail": err.Error()})
		return
	}

	imageURLs := make([]string, 0, len(result.ImagePaths))
	for _, path := range result.ImagePaths {
		imageURLs = append(imageURLs, "/images/"+filepath.Base(path))
	}

	c.JSON(http.StatusOK, chatResponsePayload{
		ConversationID: result.ConversationID,
		Text:           result.Text,
		ImageURLs:      imageURLs,
		Success:        result.Success,
		Error:          result.Error,
	})
}

func (h *ChatHandler) HandleListConversations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.IDs())
}

func (h *ChatHandler) HandleGetConversation(c *gin.Context) {
	id := c.Param("id")

	history := h.store.History(id)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	baseURL := strings.TrimRight(c.DefaultQuery("base_url", defaultBaseURL), "/")

	entries := make([]historyEntryPayload, 0, len(history))
	for _, turn := range history {
		entry := historyEntryPayload{
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
		}
		for _, path := range turn.Images {
			entry.ImageURLs = append(entry.ImageURLs, baseURL+"/images/"+filepath.Base(path))
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": id,
		"history":         entries,
	})
}

func (h *ChatHandler) HandleResetConversation(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.store.Reset(c.Request.Context(), id)
	if err != nil {
		h.logger.Warnf("reset failed for conversation %s: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reset conversation", "detail": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Conversation reset"})
}

func (h *ChatHandler) HandleDeleteConversation(c *gin.Context) {
	id := c.Param("id")

	if !h.store.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Conversation deleted"})
}

func (h *ChatHandler) HandleGetImage(c *gin.Context) {
	// Base strips any path components, so requests cannot escape the
	// output directory.
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.outputDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.File(path)
}

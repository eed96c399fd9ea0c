package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkoudela/shoplens/internal/assistant"
)

type chatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) threadFor(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	threadID, ok := s.sessions[sessionID]
	return threadID, ok
}

// createChatSession opens a new assistant thread seeded with the dataset
// briefing and returns an opaque session ID for it.
func (s *Server) createChatSession(c *gin.Context) {
	thread, err := s.assistant.CreateThread(c.Request.Context(), assistant.SeedMessages(&s.cfg.Assistant))
	if err != nil {
		s.log.Error("failed to create assistant thread", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create assistant thread"})
		return
	}

	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sessions[sessionID] = thread.ID
	s.mu.Unlock()

	s.log.Info("chat session created",
		zap.String("session_id", sessionID),
		zap.String("thread_id", thread.ID))

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// postChatMessage appends a user message to the session's thread and runs the
// assistant. With ?stream=true the reply is sent as server-sent events;
// otherwise the handler polls the run and returns the full reply.
func (s *Server) postChatMessage(c *gin.Context) {
	threadID, ok := s.threadFor(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chat session"})
		return
	}

	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.assistant.AddMessage(ctx, threadID, req.Message); err != nil {
		s.log.Error("failed to add message", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to add message"})
		return
	}

	if c.Query("stream") == "true" {
		s.streamReply(c, threadID)
		return
	}

	run, err := s.assistant.RunAndPoll(ctx, threadID)
	if err != nil {
		s.log.Error("assistant run failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant run failed"})
		return
	}
	if run.Status != assistant.RunCompleted {
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant run ended with status " + run.Status})
		return
	}

	msgs, err := s.assistant.ListMessages(ctx, threadID, 1)
	if err != nil || len(msgs) == 0 {
		s.log.Error("failed to fetch reply", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch reply"})
		return
	}

	reply := msgs[0]
	var fileIDs []string
	for _, part := range reply.Content {
		if part.Type == "image_file" && part.ImageFile != nil {
			fileIDs = append(fileIDs, part.ImageFile.FileID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":    reply.PlainText(),
		"file_ids": fileIDs,
	})
}

func (s *Server) streamReply(c *gin.Context, threadID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	run, err := s.assistant.StreamRun(c.Request.Context(), threadID, func(text string) {
		c.SSEvent("delta", text)
		c.Writer.Flush()
	})
	if err != nil {
		s.log.Error("assistant stream failed", zap.Error(err))
		c.SSEvent("error", "assistant stream failed")
		c.Writer.Flush()
		return
	}

	status := assistant.RunCompleted
	if run != nil && run.Status != "" {
		status = run.Status
	}
	c.SSEvent("done", status)
	c.Writer.Flush()
}

func (s *Server) listChatMessages(c *gin.Context) {
	threadID, ok := s.threadFor(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chat session"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	msgs, err := s.assistant.ListMessages(c.Request.Context(), threadID, limit)
	if err != nil {
		s.log.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// getChatFile proxies a file the assistant produced, typically a PNG chart.
func (s *Server) getChatFile(c *gin.Context) {
	data, err := s.assistant.FileContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.log.Error("failed to fetch file", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch file"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/calarcon/aulabot/internal/pkg/response"
	"github.com/calarcon/aulabot/internal/service"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler exposes the conversation over HTTP. Turns for the same user
// are serialized with a per-user lock so the state machine never sees two
// messages interleaved.
type ChatHandler struct {
	conversation *service.Conversation

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewChatHandler(conversation *service.Conversation) *ChatHandler {
	return &ChatHandler{
		conversation: conversation,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (h *ChatHandler) Post(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		response.Error(c, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.Error(c, http.StatusBadRequest, "message is required")
		return
	}

	lock := h.userLock(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	reply := h.conversation.Handle(c.Request.Context(), req.UserID, req.Message)
	response.Success(c, chatResponse{Reply: reply})
}

func (h *ChatHandler) userLock(userID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[userID] = lock
	}
	return lock
}

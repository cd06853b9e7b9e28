package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market-chat-service/internal/chat"
	"market-chat-service/internal/repositories"
)

// ChatroomHandler manages the chatroom REST surface.
type ChatroomHandler struct {
	chatroomRepo repositories.ChatroomRepository
	chattingRepo repositories.ChattingRepository
	chatSvc      *chat.Service
}

// NewChatroomHandler builds a ChatroomHandler.
func NewChatroomHandler(chatroomRepo repositories.ChatroomRepository, chattingRepo repositories.ChattingRepository, chatSvc *chat.Service) *ChatroomHandler {
	return &ChatroomHandler{
		chatroomRepo: chatroomRepo,
		chattingRepo: chattingRepo,
		chatSvc:      chatSvc,
	}
}

// StartChatroom creates or returns the chatroom between the caller and a
// product's seller.
func (h *ChatroomHandler) StartChatroom(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID := c.GetInt64("memberID")
	room, err := h.chatroomRepo.CreateOrGet(c.Request.Context(), req.ProductID, memberID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, repositories.ErrSelfChat):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat about your own product"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chatroom"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatroom_id": room.ID})
}

// ListChatrooms returns the chatrooms the caller participates in.
func (h *ChatroomHandler) ListChatrooms(c *gin.Context) {
	memberID := c.GetInt64("memberID")

	rooms, err := h.chatroomRepo.ListForMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chatrooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatrooms": rooms})
}

// GetChattings returns a room's log and marks it read for the caller.
func (h *ChatroomHandler) GetChattings(c *gin.Context) {
	chatroomID, err := strconv.ParseInt(c.Param("chatroom_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chatroom id"})
		return
	}

	memberID := c.GetInt64("memberID")
	member, err := h.chatroomRepo.IsParticipant(c.Request.Context(), chatroomID, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chatroom participant"})
		return
	}

	chattings, err := h.chattingRepo.FindByChatroomID(c.Request.Context(), chatroomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chattings"})
		return
	}

	if err := h.chatSvc.ReadChattingInChatroom(c.Request.Context(), chatroomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark chatroom read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chattings": chattings})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market-chat-service/internal/repositories"
)

// MemberHandler serves the thin member surface the chat core relies on.
type MemberHandler struct {
	memberRepo repositories.MemberRepository
}

// NewMemberHandler builds a MemberHandler.
func NewMemberHandler(memberRepo repositories.MemberRepository) *MemberHandler {
	return &MemberHandler{memberRepo: memberRepo}
}

// CheckNickname reports whether a nickname is already taken.
func (h *MemberHandler) CheckNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	if nickname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nickname is required"})
		return
	}

	exists, err := h.memberRepo.ExistsNickname(c.Request.Context(), nickname)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check nickname"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// GetMember returns a member's public profile.
func (h *MemberHandler) GetMember(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	member, err := h.memberRepo.Get(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

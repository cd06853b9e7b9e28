package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"market-chat-service/internal/chat"
	"market-chat-service/internal/mocks"
	"market-chat-service/internal/models"
	"market-chat-service/internal/repositories"
)

func setupChatroomRouter(handler *ChatroomHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("memberID", int64(1))
		c.Next()
	})
	r.POST("/api/chatrooms", handler.StartChatroom)
	r.GET("/api/chatrooms", handler.ListChatrooms)
	r.GET("/api/chatrooms/:chatroom_id/chattings", handler.GetChattings)
	return r
}

func newHandlerFixture() (*ChatroomHandler, *mocks.ChatroomRepositoryMock, *mocks.ChattingRepositoryMock, *mocks.PresenceRepositoryMock) {
	chatroomRepo := new(mocks.ChatroomRepositoryMock)
	chattingRepo := new(mocks.ChattingRepositoryMock)
	presenceRepo := new(mocks.PresenceRepositoryMock)
	publisher := new(mocks.PublisherMock)
	chatSvc := chat.NewService(chatroomRepo, chattingRepo, presenceRepo, publisher)
	return NewChatroomHandler(chatroomRepo, chattingRepo, chatSvc), chatroomRepo, chattingRepo, presenceRepo
}

func TestStartChatroomSuccess(t *testing.T) {
	handler, chatroomRepo, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("CreateOrGet", mock.Anything, int64(9), int64(1)).
		Return(models.Chatroom{ID: 3, ProductID: 9, SellerID: 2, BuyerID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/chatrooms", bytes.NewBufferString(`{"product_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.EqualValues(t, 3, resp["chatroom_id"])
	chatroomRepo.AssertExpectations(t)
}

func TestStartChatroomProductNotFound(t *testing.T) {
	handler, chatroomRepo, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("CreateOrGet", mock.Anything, int64(9), int64(1)).
		Return(models.Chatroom{}, repositories.ErrProductNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/chatrooms", bytes.NewBufferString(`{"product_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	chatroomRepo.AssertExpectations(t)
}

func TestStartChatroomOwnProduct(t *testing.T) {
	handler, chatroomRepo, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("CreateOrGet", mock.Anything, int64(9), int64(1)).
		Return(models.Chatroom{}, repositories.ErrSelfChat).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/chatrooms", bytes.NewBufferString(`{"product_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChatroomsSuccess(t *testing.T) {
	handler, chatroomRepo, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("ListForMember", mock.Anything, int64(1)).
		Return([]models.ChatroomSummary{{ChatroomID: 3, ProductID: 9, CounterpartID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	chatroomRepo.AssertExpectations(t)
}

func TestListChatroomsRepoError(t *testing.T) {
	handler, chatroomRepo, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("ListForMember", mock.Anything, int64(1)).
		Return(([]models.ChatroomSummary)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetChattingsSuccess(t *testing.T) {
	handler, chatroomRepo, chattingRepo, presenceRepo := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("IsParticipant", mock.Anything, int64(3), int64(1)).Return(true, nil).Once()
	chattingRepo.On("FindByChatroomID", mock.Anything, int64(3)).
		Return([]models.Chatting{{ChatroomID: 3, SenderID: 2, Content: "hello", ReadCount: 1}}, nil).Once()
	presenceRepo.On("FindByChatroomID", mock.Anything, int64(3)).Return([]models.ChatroomCounter{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms/3/chattings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	chatroomRepo.AssertExpectations(t)
	chattingRepo.AssertExpectations(t)
	presenceRepo.AssertExpectations(t)
}

func TestGetChattingsForbidden(t *testing.T) {
	handler, chatroomRepo, chattingRepo, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	chatroomRepo.On("IsParticipant", mock.Anything, int64(3), int64(1)).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms/3/chattings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chattingRepo.AssertNotCalled(t, "FindByChatroomID", mock.Anything, mock.Anything)
}

func TestGetChattingsInvalidID(t *testing.T) {
	handler, _, _, _ := newHandlerFixture()
	router := setupChatroomRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms/abc/chattings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"market-chat-service/internal/mocks"
	"market-chat-service/internal/models"
)

func setupMemberRouter(handler *MemberHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/users", handler.CheckNickname)
	r.GET("/api/users/:member_id", handler.GetMember)
	return r
}

func TestCheckNicknameTaken(t *testing.T) {
	memberRepo := new(mocks.MemberRepositoryMock)
	router := setupMemberRouter(NewMemberHandler(memberRepo))

	memberRepo.On("ExistsNickname", mock.Anything, "jun").Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users?nickname=jun", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"exists":true}`, rec.Body.String())
	memberRepo.AssertExpectations(t)
}

func TestCheckNicknameMissingParam(t *testing.T) {
	router := setupMemberRouter(NewMemberHandler(new(mocks.MemberRepositoryMock)))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMemberSuccess(t *testing.T) {
	memberRepo := new(mocks.MemberRepositoryMock)
	router := setupMemberRouter(NewMemberHandler(memberRepo))

	memberRepo.On("Get", mock.Anything, int64(7)).Return(models.Member{ID: 7, Nickname: "bean"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	memberRepo.AssertExpectations(t)
}

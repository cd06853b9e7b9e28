package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"market-chat-service/internal/models"
	"market-chat-service/internal/repositories"
)

type ChatroomRepositoryMock struct {
	mock.Mock
}

func (m *ChatroomRepositoryMock) CreateOrGet(ctx context.Context, productID int64, buyerID int64) (models.Chatroom, error) {
	args := m.Called(ctx, productID, buyerID)
	var room models.Chatroom
	if val := args.Get(0); val != nil {
		room = val.(models.Chatroom)
	}
	return room, args.Error(1)
}

func (m *ChatroomRepositoryMock) Get(ctx context.Context, chatroomID int64) (models.Chatroom, error) {
	args := m.Called(ctx, chatroomID)
	var room models.Chatroom
	if val := args.Get(0); val != nil {
		room = val.(models.Chatroom)
	}
	return room, args.Error(1)
}

func (m *ChatroomRepositoryMock) IsParticipant(ctx context.Context, chatroomID int64, memberID int64) (bool, error) {
	args := m.Called(ctx, chatroomID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatroomRepositoryMock) ListForMember(ctx context.Context, memberID int64) ([]models.ChatroomSummary, error) {
	args := m.Called(ctx, memberID)
	var list []models.ChatroomSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatroomSummary)
	}
	return list, args.Error(1)
}

type ChattingRepositoryMock struct {
	mock.Mock
}

func (m *ChattingRepositoryMock) Save(ctx context.Context, chatting models.Chatting) (models.Chatting, error) {
	args := m.Called(ctx, chatting)
	var saved models.Chatting
	if val := args.Get(0); val != nil {
		saved = val.(models.Chatting)
	}
	return saved, args.Error(1)
}

func (m *ChattingRepositoryMock) FindByID(ctx context.Context, id primitive.ObjectID) (models.Chatting, error) {
	args := m.Called(ctx, id)
	var chatting models.Chatting
	if val := args.Get(0); val != nil {
		chatting = val.(models.Chatting)
	}
	return chatting, args.Error(1)
}

func (m *ChattingRepositoryMock) FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.Chatting, error) {
	args := m.Called(ctx, chatroomID)
	var chattings []models.Chatting
	if val := args.Get(0); val != nil {
		chattings = val.([]models.Chatting)
	}
	return chattings, args.Error(1)
}

func (m *ChattingRepositoryMock) MarkReadExcludingSender(ctx context.Context, chatroomID int64, excludedSenderID int64) (int64, error) {
	args := m.Called(ctx, chatroomID, excludedSenderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChattingRepositoryMock) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PresenceRepositoryMock struct {
	mock.Mock
}

func (m *PresenceRepositoryMock) Increment(ctx context.Context, chatroomID int64, memberID int64) (int64, error) {
	args := m.Called(ctx, chatroomID, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PresenceRepositoryMock) Decrement(ctx context.Context, chatroomID int64, memberID int64) (int64, bool, error) {
	args := m.Called(ctx, chatroomID, memberID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *PresenceRepositoryMock) FindByChatroomID(ctx context.Context, chatroomID int64) ([]models.ChatroomCounter, error) {
	args := m.Called(ctx, chatroomID)
	var counters []models.ChatroomCounter
	if val := args.Get(0); val != nil {
		counters = val.([]models.ChatroomCounter)
	}
	return counters, args.Error(1)
}

func (m *PresenceRepositoryMock) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MemberRepositoryMock struct {
	mock.Mock
}

func (m *MemberRepositoryMock) Get(ctx context.Context, memberID int64) (models.Member, error) {
	args := m.Called(ctx, memberID)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) Get(ctx context.Context, productID int64) (models.Product, error) {
	args := m.Called(ctx, productID)
	var product models.Product
	if val := args.Get(0); val != nil {
		product = val.(models.Product)
	}
	return product, args.Error(1)
}

func (m *ProductRepositoryMock) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	var products []models.Product
	if val := args.Get(0); val != nil {
		products = val.([]models.Product)
	}
	return products, args.Error(1)
}

var _ repositories.ChatroomRepository = (*ChatroomRepositoryMock)(nil)
var _ repositories.ChattingRepository = (*ChattingRepositoryMock)(nil)
var _ repositories.PresenceRepository = (*PresenceRepositoryMock)(nil)
var _ repositories.MemberRepository = (*MemberRepositoryMock)(nil)
var _ repositories.ProductRepository = (*ProductRepositoryMock)(nil)

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"market-chat-service/internal/broker"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, topic string, event any) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ broker.Publisher = (*PublisherMock)(nil)

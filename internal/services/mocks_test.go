package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/invenzia/disclosure-api/internal/mailer"
)

// MockSender implements mailer.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

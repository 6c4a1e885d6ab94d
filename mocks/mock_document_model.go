package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dealdesk/internal/port"
)

// MockDocumentModel is a mock implementation of port.DocumentModel.
type MockDocumentModel struct {
	mock.Mock
}

func (m *MockDocumentModel) Complete(ctx context.Context, req port.ModelRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

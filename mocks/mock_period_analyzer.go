package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dealdesk/internal/domain"
	"dealdesk/internal/port"
)

// MockPeriodAnalyzer is a mock implementation of port.PeriodAnalyzer.
type MockPeriodAnalyzer struct {
	mock.Mock
}

func (m *MockPeriodAnalyzer) Analyze(ctx context.Context, inputs []port.PeriodInput) (*domain.PeriodAnalysisHint, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodAnalysisHint), args.Error(1)
}

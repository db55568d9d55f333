package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"beaunifi/internal/detect"
	"beaunifi/internal/model"
	"beaunifi/internal/workflow"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Beautify(ctx context.Context, code string, lang model.Lang, indentSize int) (string, error) {
	args := m.Called(ctx, code, lang, indentSize)
	return args.String(0), args.Error(1)
}

func (m *MockService) Minify(ctx context.Context, code string, lang model.Lang) (string, error) {
	args := m.Called(ctx, code, lang)
	return args.String(0), args.Error(1)
}

func (m *MockService) IsMinified(ctx context.Context, code string, lang model.Lang) detect.Verdict {
	args := m.Called(ctx, code, lang)
	return args.Get(0).(detect.Verdict)
}

func (m *MockService) Process(ctx context.Context, req workflow.ProcessRequest) (*model.ProcessResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessResult), args.Error(1)
}

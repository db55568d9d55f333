package mocks

import (
	"github.com/stretchr/testify/mock"

	"beaunifi/internal/model"
	"beaunifi/internal/transform"
)

type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Beautify(code string, lang model.Lang, opts transform.Options) (string, error) {
	args := m.Called(code, lang, opts)
	return args.String(0), args.Error(1)
}

func (m *MockTransformer) Minify(code string, lang model.Lang) (string, error) {
	args := m.Called(code, lang)
	return args.String(0), args.Error(1)
}

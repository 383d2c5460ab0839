package cmd

// This file contains mock implementations used across different test files
// within the cmd package, but which need to be accessible from outside
// _test.go files (e.g., for integration tests).

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEnhancer is a mock implementation of the form.Enhancer interface.
// Exported for use in integration tests.
type MockEnhancer struct {
	mock.Mock
}

// Enhance matches form.Enhancer
func (m *MockEnhancer) Enhance(ctx context.Context, composedPrompt string) (string, error) {
	args := m.Called(ctx, composedPrompt)
	return args.String(0), args.Error(1)
}

// MockClipboard is a mock implementation of the form.Clipboard interface.
type MockClipboard struct {
	mock.Mock
}

// WriteText matches form.Clipboard
func (m *MockClipboard) WriteText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rangeguard.dev/pkg/rangeguard/internal/domain"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test finishes.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	w := &MockWorkflow{}
	w.Mock.Test(t)

	t.Cleanup(func() { w.AssertExpectations(t) })

	return w
}

// List provides a mock function.
func (w *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := w.Called(ctx, args)
	return ret.Error(0)
}

// Fix provides a mock function.
func (w *MockWorkflow) Fix(ctx context.Context, args domain.FixArgs) error {
	ret := w.Called(ctx, args)
	return ret.Error(0)
}

// View provides a mock function.
func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	ret := w.Called(ctx, args)
	return ret.Error(0)
}

var _ domain.Workflow = (*MockWorkflow)(nil)

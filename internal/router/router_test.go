package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/observer/scheduler"
)

type mockChecker struct{ mock.Mock }

func (m *mockChecker) Check(ctx context.Context, productID int64, url string) (scheduler.CheckResult, error) {
	args := m.Called(ctx, productID, url)
	return args.Get(0).(scheduler.CheckResult), args.Error(1)
}

type mockProductLookup struct{ mock.Mock }

func (m *mockProductLookup) GetProductByID(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type mockSweepRunner struct{ mock.Mock }

func (m *mockSweepRunner) RunNow(ctx context.Context) (scheduler.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(scheduler.SweepResult), args.Error(1)
}

func TestHandleRunCheck_Success(t *testing.T) {
	checker := &mockChecker{}
	products := &mockProductLookup{}

	products.On("GetProductByID", mock.Anything, int64(7)).Return("https://shop.example.com/p", nil)
	checker.On("Check", mock.Anything, int64(7), "https://shop.example.com/p").Return(scheduler.CheckResult{VariantCount: 2}, nil)

	cfg := &Config{Coordinator: checker, Products: products}
	req := httptest.NewRequest(http.MethodPost, "/internal/checks/7", nil)
	rec := httptest.NewRecorder()

	cfg.SetupRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleRunCheck_InvalidProductID(t *testing.T) {
	cfg := &Config{Coordinator: &mockChecker{}, Products: &mockProductLookup{}}
	req := httptest.NewRequest(http.MethodPost, "/internal/checks/not-a-number", nil)
	rec := httptest.NewRecorder()

	cfg.SetupRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRunCheck_UnknownProduct(t *testing.T) {
	products := &mockProductLookup{}
	products.On("GetProductByID", mock.Anything, int64(99)).Return("", assert.AnError)

	cfg := &Config{Coordinator: &mockChecker{}, Products: products}
	req := httptest.NewRequest(http.MethodPost, "/internal/checks/99", nil)
	rec := httptest.NewRecorder()

	cfg.SetupRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRunSchedulerNow_Success(t *testing.T) {
	sched := &mockSweepRunner{}
	sched.On("RunNow", mock.Anything).Return(scheduler.SweepResult{RunID: "abc", ProductsChecked: 3, Success: true}, nil)

	cfg := &Config{Scheduler: sched, Coordinator: &mockChecker{}, Products: &mockProductLookup{}}
	req := httptest.NewRequest(http.MethodPost, "/internal/scheduler/run", nil)
	rec := httptest.NewRecorder()

	cfg.SetupRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleRunSchedulerNow_AlreadyInProgress(t *testing.T) {
	sched := &mockSweepRunner{}
	sched.On("RunNow", mock.Anything).Return(scheduler.SweepResult{}, scheduler.ErrSweepInProgress)

	cfg := &Config{Scheduler: sched, Coordinator: &mockChecker{}, Products: &mockProductLookup{}}
	req := httptest.NewRequest(http.MethodPost, "/internal/scheduler/run", nil)
	rec := httptest.NewRecorder()

	cfg.SetupRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/observer/extractor"
	"github.com/shelfwatch/observer/fetcher"
	"github.com/shelfwatch/observer/ingestion"
	"github.com/shelfwatch/observer/internal/database"
)

type mockCheckRunQueries struct{ mock.Mock }

func (m *mockCheckRunQueries) GetProductByID(ctx context.Context, id int64) (database.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Product), args.Error(1)
}

func (m *mockCheckRunQueries) CreateCheckRun(ctx context.Context, arg database.CreateCheckRunParams) (database.CheckRun, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.CheckRun), args.Error(1)
}

func (m *mockCheckRunQueries) FinishCheckRun(ctx context.Context, arg database.FinishCheckRunParams) (database.CheckRun, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.CheckRun), args.Error(1)
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context, url string) fetcher.FetchResult {
	args := m.Called(ctx, url)
	return args.Get(0).(fetcher.FetchResult)
}

type mockIngester struct{ mock.Mock }

func (m *mockIngester) Ingest(ctx context.Context, shell extractor.ProductShell) (ingestion.Result, error) {
	args := m.Called(ctx, shell)
	return args.Get(0).(ingestion.Result), args.Error(1)
}

func TestCoordinatorCheck_FetchFailure_ClosesRowAsFailed(t *testing.T) {
	db := &mockCheckRunQueries{}
	f := &mockFetcher{}
	ing := &mockIngester{}

	db.On("CreateCheckRun", mock.Anything, mock.Anything).Return(database.CheckRun{ID: 1}, nil)
	f.On("Fetch", mock.Anything, "https://shop.example.com/p").Return(fetcher.FetchResult{
		Success: false, Error: "timeout",
	})
	db.On("FinishCheckRun", mock.Anything, mock.MatchedBy(func(p database.FinishCheckRunParams) bool {
		return p.Status == database.CheckRunFailed
	})).Return(database.CheckRun{ID: 1, Status: database.CheckRunFailed}, nil)

	c := NewCoordinator(db, f, ing, logrus.New())
	_, err := c.Check(context.Background(), 7, "https://shop.example.com/p")

	require.Error(t, err)
	ing.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
	db.AssertCalled(t, "FinishCheckRun", mock.Anything, mock.Anything)
}

func TestCoordinatorCheck_IngestionFailure_ClosesRowAsFailed(t *testing.T) {
	db := &mockCheckRunQueries{}
	f := &mockFetcher{}
	ing := &mockIngester{}

	db.On("CreateCheckRun", mock.Anything, mock.Anything).Return(database.CheckRun{ID: 1}, nil)
	f.On("Fetch", mock.Anything, mock.Anything).Return(fetcher.FetchResult{
		Success: true, RawHTML: "<html></html>", FetchedAt: time.Now(),
	})
	ing.On("Ingest", mock.Anything, mock.Anything).Return(ingestion.Result{}, errors.New("db down"))
	db.On("FinishCheckRun", mock.Anything, mock.MatchedBy(func(p database.FinishCheckRunParams) bool {
		return p.Status == database.CheckRunFailed
	})).Return(database.CheckRun{ID: 1, Status: database.CheckRunFailed}, nil)

	c := NewCoordinator(db, f, ing, logrus.New())
	_, err := c.Check(context.Background(), 7, "https://shop.example.com/p")

	require.Error(t, err)
}

func TestCoordinatorCheck_Success_ClosesRowAsSuccess(t *testing.T) {
	db := &mockCheckRunQueries{}
	f := &mockFetcher{}
	ing := &mockIngester{}

	db.On("CreateCheckRun", mock.Anything, mock.Anything).Return(database.CheckRun{ID: 1}, nil)
	f.On("Fetch", mock.Anything, mock.Anything).Return(fetcher.FetchResult{
		Success: true, RawHTML: "<html></html>", FetchedAt: time.Now(),
	})
	ing.On("Ingest", mock.Anything, mock.Anything).Return(ingestion.Result{
		Product:  database.Product{ID: 1},
		Variants: []database.Variant{{ID: 1}},
	}, nil)
	db.On("FinishCheckRun", mock.Anything, mock.MatchedBy(func(p database.FinishCheckRunParams) bool {
		return p.Status == database.CheckRunSuccess && !p.ErrorMessage.Valid
	})).Return(database.CheckRun{ID: 1, Status: database.CheckRunSuccess, FinishedAt: sql.NullTime{Time: time.Now(), Valid: true}}, nil)

	c := NewCoordinator(db, f, ing, logrus.New())
	result, err := c.Check(context.Background(), 7, "https://shop.example.com/p")

	require.NoError(t, err)
	assert.Equal(t, 1, result.VariantCount)
}

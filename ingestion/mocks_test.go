package ingestion

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/shelfwatch/observer/internal/database"
)

// mocks_test.go: testify/mock doubles for Queries/Conn/Tx, mirroring
// category_helper_test.go's MockCategoryDBQueries/DBConn/DBTx shape.

type mockQueries struct {
	mock.Mock
}

func (m *mockQueries) WithTx(tx Tx) Queries {
	args := m.Called(tx)
	return args.Get(0).(Queries)
}

func (m *mockQueries) GetProductByURL(ctx context.Context, url string) (database.Product, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(database.Product), args.Error(1)
}

func (m *mockQueries) CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Product), args.Error(1)
}

func (m *mockQueries) UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Product), args.Error(1)
}

func (m *mockQueries) GetVariantByProductAndSKU(ctx context.Context, productID int64, sku string) (database.Variant, error) {
	args := m.Called(ctx, productID, sku)
	return args.Get(0).(database.Variant), args.Error(1)
}

func (m *mockQueries) GetVariantByProductAndAttributesKey(ctx context.Context, productID int64, attributesKey string) (database.Variant, error) {
	args := m.Called(ctx, productID, attributesKey)
	return args.Get(0).(database.Variant), args.Error(1)
}

func (m *mockQueries) CreateVariant(ctx context.Context, arg database.CreateVariantParams) (database.Variant, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Variant), args.Error(1)
}

func (m *mockQueries) UpdateVariantCurrent(ctx context.Context, arg database.UpdateVariantCurrentParams) (database.Variant, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Variant), args.Error(1)
}

func (m *mockQueries) CreatePriceHistory(ctx context.Context, arg database.CreatePriceHistoryParams) (database.PriceHistory, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.PriceHistory), args.Error(1)
}

func (m *mockQueries) CreateStockHistory(ctx context.Context, arg database.CreateStockHistoryParams) (database.StockHistory, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.StockHistory), args.Error(1)
}

type mockConn struct {
	mock.Mock
}

func (m *mockConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(Tx), args.Error(1)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

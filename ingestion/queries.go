// Package ingestion atomically reconciles an extractor.ProductShell
// against the stored product/variant rows and appends price/stock
// history, following the teacher's CategoryDBQueries/CategoryDBTx
// adapter pattern so the whole algorithm is unit-testable against
// mocks of these seams without a live Postgres.
package ingestion

import (
	"context"
	"database/sql"

	"github.com/shelfwatch/observer/internal/database"
)

// queries.go: interface seams over *database.Queries and *sql.DB,
// mirroring handlers/category/category_service.go's
// CategoryDBQueries/CategoryDBConn/CategoryDBTx split.

// Queries is the subset of database.Queries the ingestion algorithm
// calls, plus WithTx for rebinding onto an open transaction.
type Queries interface {
	WithTx(tx Tx) Queries

	GetProductByURL(ctx context.Context, url string) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)

	GetVariantByProductAndSKU(ctx context.Context, productID int64, sku string) (database.Variant, error)
	GetVariantByProductAndAttributesKey(ctx context.Context, productID int64, attributesKey string) (database.Variant, error)
	CreateVariant(ctx context.Context, arg database.CreateVariantParams) (database.Variant, error)
	UpdateVariantCurrent(ctx context.Context, arg database.UpdateVariantCurrentParams) (database.Variant, error)

	CreatePriceHistory(ctx context.Context, arg database.CreatePriceHistoryParams) (database.PriceHistory, error)
	CreateStockHistory(ctx context.Context, arg database.CreateStockHistoryParams) (database.StockHistory, error)
}

// Tx is the minimal transaction lifecycle the service needs.
type Tx interface {
	Commit() error
	Rollback() error
}

// Conn begins transactions for the service.
type Conn interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// QueriesAdapter adapts *database.Queries to the Queries interface.
type QueriesAdapter struct {
	*database.Queries
}

// WithTx returns a new Queries bound to tx.
func (a *QueriesAdapter) WithTx(tx Tx) Queries {
	if tx == nil {
		return nil
	}
	return &QueriesAdapter{a.Queries.WithTx(tx.(*sql.Tx))}
}

// ConnAdapter adapts a *sql.DB to the Conn interface.
type ConnAdapter struct {
	*sql.DB
}

// BeginTx begins a new database transaction.
func (a *ConnAdapter) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return a.DB.BeginTx(ctx, opts)
}

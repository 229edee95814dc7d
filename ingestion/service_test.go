package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/observer/extractor"
	"github.com/shelfwatch/observer/internal/core"
	"github.com/shelfwatch/observer/internal/database"
)

func newTestService(db *mockQueries, conn *mockConn) *Service {
	return &Service{db: db, dbConn: conn, logger: logrus.New()}
}

func amountOf(s string) *string { return &s }

func basicShell() extractor.ProductShell {
	return extractor.ProductShell{
		URL:       "https://shop.example.com/products/widget",
		FinalURL:  "https://shop.example.com/products/widget",
		FetchedAt: time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		Title:     "Widget",
		Variants: []extractor.VariantShell{
			{
				SKU:        "SKU1",
				Attributes: core.Attributes{"size": "M"},
				Price:      &extractor.PriceShell{Amount: amountOf("19.99"), Currency: "USD", Raw: "$19.99", Source: "json-ld"},
				Stock:      &extractor.StockShell{Status: core.StockInStock, Raw: "InStock", Source: "json"},
			},
		},
	}
}

func TestIngest_RejectsShellWithoutURL(t *testing.T) {
	db := &mockQueries{}
	conn := &mockConn{}
	svc := newTestService(db, conn)

	_, err := svc.Ingest(context.Background(), extractor.ProductShell{})

	require.Error(t, err)
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, core.CodeInvalidInput, coreErr.Code)
	conn.AssertNotCalled(t, "BeginTx")
}

func TestIngest_NewProductAndVariant_AppendsFirstHistoryRows(t *testing.T) {
	db := &mockQueries{}
	conn := &mockConn{}
	tx := &mockTx{}

	conn.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	tx.On("Rollback").Return(sql.ErrTxDone)
	tx.On("Commit").Return(nil)
	db.On("WithTx", tx).Return(db)

	db.On("GetProductByURL", mock.Anything, mock.Anything).Return(database.Product{}, sql.ErrNoRows)
	db.On("CreateProduct", mock.Anything, mock.Anything).Return(database.Product{ID: 1}, nil)
	db.On("GetVariantByProductAndSKU", mock.Anything, int64(1), "SKU1").Return(database.Variant{}, sql.ErrNoRows)
	db.On("GetVariantByProductAndAttributesKey", mock.Anything, int64(1), mock.Anything).Return(database.Variant{}, sql.ErrNoRows)
	db.On("CreateVariant", mock.Anything, mock.Anything).Return(database.Variant{ID: 10, ProductID: 1}, nil)
	db.On("CreatePriceHistory", mock.Anything, mock.Anything).Return(database.PriceHistory{ID: 100}, nil)
	db.On("CreateStockHistory", mock.Anything, mock.Anything).Return(database.StockHistory{ID: 200}, nil)
	db.On("UpdateVariantCurrent", mock.Anything, mock.Anything).Return(database.Variant{ID: 10, ProductID: 1}, nil)

	svc := newTestService(db, conn)
	result, err := svc.Ingest(context.Background(), basicShell())

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Product.ID)
	require.Len(t, result.Variants, 1)
	db.AssertNumberOfCalls(t, "CreatePriceHistory", 1)
	db.AssertNumberOfCalls(t, "CreateStockHistory", 1)
	tx.AssertCalled(t, "Commit")
}

func TestIngest_IdempotentReingestion_NoNewHistoryRows(t *testing.T) {
	db := &mockQueries{}
	conn := &mockConn{}
	tx := &mockTx{}

	conn.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	tx.On("Rollback").Return(sql.ErrTxDone)
	tx.On("Commit").Return(nil)
	db.On("WithTx", tx).Return(db)

	existingProduct := database.Product{ID: 1, URL: "https://shop.example.com/products/widget"}
	existingVariant := database.Variant{
		ID:                 10,
		ProductID:          1,
		SKU:                sql.NullString{String: "SKU1", Valid: true},
		CurrentCurrency:    sql.NullString{String: "USD", Valid: true},
		CurrentPrice:       decimal.NullDecimal{Decimal: decimal.RequireFromString("19.99"), Valid: true},
		CurrentStockStatus: string(core.StockInStock),
	}

	db.On("GetProductByURL", mock.Anything, mock.Anything).Return(existingProduct, nil)
	db.On("UpdateProduct", mock.Anything, mock.Anything).Return(existingProduct, nil)
	db.On("GetVariantByProductAndSKU", mock.Anything, int64(1), "SKU1").Return(existingVariant, nil)
	db.On("UpdateVariantCurrent", mock.Anything, mock.Anything).Return(existingVariant, nil)

	svc := newTestService(db, conn)
	_, err := svc.Ingest(context.Background(), basicShell())

	require.NoError(t, err)
	db.AssertNotCalled(t, "CreatePriceHistory", mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "CreateStockHistory", mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "CreateVariant", mock.Anything, mock.Anything)
}

func TestIngest_PriceChange_AppendsNewPriceHistoryRow(t *testing.T) {
	db := &mockQueries{}
	conn := &mockConn{}
	tx := &mockTx{}

	conn.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	tx.On("Rollback").Return(sql.ErrTxDone)
	tx.On("Commit").Return(nil)
	db.On("WithTx", tx).Return(db)

	existingProduct := database.Product{ID: 1}
	existingVariant := database.Variant{
		ID:                 10,
		ProductID:          1,
		SKU:                sql.NullString{String: "SKU1", Valid: true},
		CurrentCurrency:    sql.NullString{String: "USD", Valid: true},
		CurrentPrice:       decimal.NullDecimal{Decimal: decimal.RequireFromString("29.99"), Valid: true},
		CurrentStockStatus: string(core.StockInStock),
	}

	shell := basicShell()
	shell.Variants[0].Price.Amount = amountOf("39.99")

	db.On("GetProductByURL", mock.Anything, mock.Anything).Return(existingProduct, nil)
	db.On("UpdateProduct", mock.Anything, mock.Anything).Return(existingProduct, nil)
	db.On("GetVariantByProductAndSKU", mock.Anything, int64(1), "SKU1").Return(existingVariant, nil)
	db.On("CreatePriceHistory", mock.Anything, mock.Anything).Return(database.PriceHistory{}, nil)
	db.On("UpdateVariantCurrent", mock.Anything, mock.Anything).Return(existingVariant, nil)

	svc := newTestService(db, conn)
	_, err := svc.Ingest(context.Background(), shell)

	require.NoError(t, err)
	db.AssertNumberOfCalls(t, "CreatePriceHistory", 1)
	db.AssertNotCalled(t, "CreateStockHistory", mock.Anything, mock.Anything)
}

func TestIngest_RollbackOnVariantInsertError(t *testing.T) {
	db := &mockQueries{}
	conn := &mockConn{}
	tx := &mockTx{}

	conn.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	tx.On("Rollback").Return(nil)
	db.On("WithTx", tx).Return(db)

	db.On("GetProductByURL", mock.Anything, mock.Anything).Return(database.Product{}, sql.ErrNoRows)
	db.On("CreateProduct", mock.Anything, mock.Anything).Return(database.Product{ID: 1}, nil)
	db.On("GetVariantByProductAndSKU", mock.Anything, int64(1), "SKU1").Return(database.Variant{}, sql.ErrNoRows)
	db.On("GetVariantByProductAndAttributesKey", mock.Anything, int64(1), mock.Anything).Return(database.Variant{}, sql.ErrNoRows)
	db.On("CreateVariant", mock.Anything, mock.Anything).Return(database.Variant{}, errors.New("constraint violation"))

	svc := newTestService(db, conn)
	_, err := svc.Ingest(context.Background(), basicShell())

	require.Error(t, err)
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, core.CodeIngestionFailed, coreErr.Code)
	tx.AssertCalled(t, "Rollback")
	tx.AssertNotCalled(t, "Commit")
}

package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shelfwatch/observer/extractor"
	"github.com/shelfwatch/observer/internal/core"
	"github.com/shelfwatch/observer/internal/database"
	"github.com/shelfwatch/observer/utils"
)

// service.go: the four-step transactional reconciliation algorithm from
// spec.md §4.3, run inside one BeginTx/Commit with deferred rollback on
// any early return, exactly as category_service.go/order_service.go do it.

// Result is what a successful Ingest call returns: the persisted product
// and its full reconciled variant set.
type Result struct {
	Product  database.Product
	Variants []database.Variant
}

// Service reconciles ProductShells into the relational store.
type Service struct {
	db     Queries
	dbConn Conn
	logger logrus.FieldLogger
}

// NewService builds a Service from a generated Queries and the
// underlying *sql.DB, mirroring NewCategoryService's adapter wiring.
func NewService(db *database.Queries, dbConn *sql.DB, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	var queries Queries
	var conn Conn
	if db != nil {
		queries = &QueriesAdapter{db}
	}
	if dbConn != nil {
		conn = &ConnAdapter{dbConn}
	}
	return &Service{db: queries, dbConn: conn, logger: logger}
}

// Ingest performs the full upsert/reconcile/history/write-back algorithm
// for one ProductShell inside a single transaction.
func (s *Service) Ingest(ctx context.Context, shell extractor.ProductShell) (Result, error) {
	if shell.URL == "" {
		return Result{}, core.NewError(core.CodeInvalidInput, "product shell missing url", nil)
	}
	if s.dbConn == nil || s.db == nil {
		return Result{}, core.NewError(core.CodeInternal, "ingestion service has no database wired", nil)
	}

	tx, err := s.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, core.NewError(core.CodeIngestionFailed, "error starting transaction", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			s.logger.WithError(rerr).Warn("ingestion: rollback failed")
		}
	}()

	queries := s.db.WithTx(tx)

	product, err := upsertProduct(ctx, queries, shell)
	if err != nil {
		return Result{}, err
	}

	variants := make([]database.Variant, 0, len(shell.Variants))
	for _, vs := range shell.Variants {
		v, err := reconcileVariant(ctx, queries, product.ID, vs, shell.FetchedAt)
		if err != nil {
			return Result{}, err
		}
		variants = append(variants, v)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, core.NewError(core.CodeIngestionFailed, "error committing transaction", err)
	}

	return Result{Product: product, Variants: variants}, nil
}

// upsertProduct implements spec.md §4.3 step 1: look up by url, insert on
// first observation, else refresh identity fields and bump updated_at.
func upsertProduct(ctx context.Context, queries Queries, shell extractor.ProductShell) (database.Product, error) {
	fetchedAt := fetchedAtOr(shell.FetchedAt)

	existing, err := queries.GetProductByURL(ctx, shell.URL)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		product, err := queries.CreateProduct(ctx, database.CreateProductParams{
			URL:          shell.URL,
			Name:         shell.Title,
			Description:  utils.ToNullString(shell.Description),
			MainImageURL: utils.ToNullString(firstImage(shell.Images)),
			Metadata:     shell.Metadata,
			CreatedAt:    fetchedAt,
			UpdatedAt:    fetchedAt,
		})
		if err != nil {
			return database.Product{}, core.NewError(core.CodeIngestionFailed, "product insert failed", err)
		}
		return product, nil
	case err != nil:
		return database.Product{}, core.NewError(core.CodeIngestionFailed, "product lookup failed", err)
	default:
		product, err := queries.UpdateProduct(ctx, database.UpdateProductParams{
			ID:           existing.ID,
			CanonicalURL: existing.CanonicalURL,
			Name:         orDefault(shell.Title, existing.Name),
			Description:  orNullString(shell.Description, existing.Description),
			Vendor:       existing.Vendor,
			MainImageURL: orNullString(firstImage(shell.Images), existing.MainImageURL),
			Metadata:     shell.Metadata,
			UpdatedAt:    fetchedAt,
		})
		if err != nil {
			return database.Product{}, core.NewError(core.CodeIngestionFailed, "product update failed", err)
		}
		return product, nil
	}
}

// reconcileVariant implements spec.md §4.3 steps 2-4 for one incoming
// variant: locate-or-insert, append history on change, write back
// current values.
func reconcileVariant(ctx context.Context, queries Queries, productID int64, vs extractor.VariantShell, fetchedAt time.Time) (database.Variant, error) {
	fetchedAt = fetchedAtOr(fetchedAt)
	attrs := vs.Attributes.Normalize()
	key := attrs.Key()

	existing, found, err := lookupVariant(ctx, queries, productID, vs.SKU, key)
	if err != nil {
		return database.Variant{}, core.NewError(core.CodeIngestionFailed, "variant lookup failed", err)
	}

	status := core.StockUnknown
	stockRaw := ""
	stockSource := ""
	if vs.Stock != nil {
		status = vs.Stock.Status
		stockRaw = vs.Stock.Raw
		stockSource = vs.Stock.Source
	}
	isAvailable, isAvailableOK := core.IsAvailable(status)

	priceAmount, currency, priceRaw, priceSource := priceFields(vs.Price)

	metadata := core.Metadata{}
	if priceSource != "" {
		metadata["price_source"] = priceSource
	}
	if stockSource != "" {
		metadata["stock_source"] = stockSource
	}

	lastChecked := sql.NullTime{Time: fetchedAt, Valid: true}
	isAvailableNull := sql.NullBool{Bool: isAvailable, Valid: isAvailableOK}

	var variant database.Variant
	isNew := !found
	if isNew {
		variant, err = queries.CreateVariant(ctx, database.CreateVariantParams{
			ProductID:          productID,
			SKU:                utils.ToNullString(vs.SKU),
			Attributes:         attrs,
			AttributesKey:      key,
			CurrentCurrency:    currency,
			CurrentPrice:       priceAmount,
			CurrentStockStatus: string(status),
			IsAvailable:        isAvailableNull,
			LastCheckedAt:      lastChecked,
			Metadata:           metadata,
			CreatedAt:          fetchedAt,
			UpdatedAt:          fetchedAt,
		})
		if err != nil {
			return database.Variant{}, core.NewError(core.CodeIngestionFailed, "variant insert failed", err)
		}
	} else {
		variant = existing
	}

	if isNew || !samePrice(existing.CurrentPrice, priceAmount) || existing.CurrentCurrency.String != currency.String {
		if _, err := queries.CreatePriceHistory(ctx, database.CreatePriceHistoryParams{
			VariantID:  variant.ID,
			RecordedAt: fetchedAt,
			Price:      priceAmount,
			Currency:   currency,
			Raw:        priceRaw,
			Metadata:   metadata,
		}); err != nil {
			return database.Variant{}, core.NewError(core.CodeIngestionFailed, "price history append failed", err)
		}
	}

	if isNew || existing.CurrentStockStatus != string(status) {
		if _, err := queries.CreateStockHistory(ctx, database.CreateStockHistoryParams{
			VariantID:  variant.ID,
			RecordedAt: fetchedAt,
			Status:     string(status),
			Raw:        utils.ToNullString(stockRaw),
			Metadata:   metadata,
		}); err != nil {
			return database.Variant{}, core.NewError(core.CodeIngestionFailed, "stock history append failed", err)
		}
	}

	updated, err := queries.UpdateVariantCurrent(ctx, database.UpdateVariantCurrentParams{
		ID:                 variant.ID,
		CurrentCurrency:    currency,
		CurrentPrice:       priceAmount,
		CurrentStockStatus: string(status),
		IsAvailable:        isAvailableNull,
		LastCheckedAt:      lastChecked,
		Metadata:           metadata,
		UpdatedAt:          fetchedAt,
	})
	if err != nil {
		return database.Variant{}, core.NewError(core.CodeIngestionFailed, "variant write-back failed", err)
	}

	return updated, nil
}

// lookupVariant implements spec.md §4.3 step 2's identity order: sku
// match first when present, falling back to the attribute-map key (a
// variant discovered without a sku on an earlier observation may gain
// one later without producing a duplicate row).
func lookupVariant(ctx context.Context, queries Queries, productID int64, sku, attributesKey string) (database.Variant, bool, error) {
	if sku != "" {
		v, err := queries.GetVariantByProductAndSKU(ctx, productID, sku)
		switch {
		case err == nil:
			return v, true, nil
		case !errors.Is(err, sql.ErrNoRows):
			return database.Variant{}, false, err
		}
	}
	v, err := queries.GetVariantByProductAndAttributesKey(ctx, productID, attributesKey)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return database.Variant{}, false, nil
	default:
		return database.Variant{}, false, err
	}
}

func priceFields(p *extractor.PriceShell) (amount decimal.NullDecimal, currency sql.NullString, raw sql.NullString, source string) {
	if p == nil {
		return decimal.NullDecimal{}, sql.NullString{}, sql.NullString{}, ""
	}
	if p.Amount != nil {
		if d, err := decimal.NewFromString(*p.Amount); err == nil {
			amount = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	if p.Currency != "" {
		currency = sql.NullString{String: core.NormalizeCurrency(p.Currency), Valid: true}
	}
	if p.Raw != "" {
		raw = sql.NullString{String: p.Raw, Valid: true}
	}
	return amount, currency, raw, p.Source
}

func samePrice(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}

func orNullString(incoming string, fallback sql.NullString) sql.NullString {
	if incoming == "" {
		return fallback
	}
	return sql.NullString{String: incoming, Valid: true}
}

func orDefault(incoming, fallback string) string {
	if incoming == "" {
		return fallback
	}
	return incoming
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

func fetchedAtOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

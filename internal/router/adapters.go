package router

import (
	"context"

	"github.com/shelfwatch/observer/internal/database"
)

// adapters.go: adapts *database.Queries onto the narrow ProductLookup
// seam this package depends on, mirroring the teacher's adapters.go
// (Adapt/WithUser) in spirit though the shape here is a single
// data-lookup adapter rather than a handler-signature adapter.

// DBProductLookup adapts *database.Queries to ProductLookup.
type DBProductLookup struct {
	DB *database.Queries
}

// GetProductByID resolves a product id to its tracked URL.
func (a *DBProductLookup) GetProductByID(ctx context.Context, id int64) (string, error) {
	product, err := a.DB.GetProductByID(ctx, id)
	if err != nil {
		return "", err
	}
	return product.URL, nil
}

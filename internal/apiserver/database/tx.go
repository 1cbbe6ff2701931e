package database

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key used to carry transactions
type txKey struct{}

// contextWithTx returns a context carrying the transaction.
func contextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFromContext returns the transaction carried by the context, or the base
// connection bound to the context when no transaction is open.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrderArchive = (*OrderArchive)(nil)

type OrderArchive struct {
	sqldb sqldb
}

func NewOrderArchive(sqldb sqldb) OrderArchive {
	return OrderArchive{sqldb}
}

const (
	insertOrderQuery = `
		INSERT INTO orders (
			order_id, customer_name, email, phone, state, address, notes,
			total_usd, total_dzd, placed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id) DO NOTHING;`

	insertOrderItemQuery = `
		INSERT INTO order_items (
			order_id, position, product_id, name_en, name_ar, platform,
			unit_usd, unit_dzd, quantity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	insertProductRequestQuery = `
		INSERT INTO product_requests (
			request_id, product_name, product_url, product_description,
			customer_name, email, phone, state, address, notes, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (request_id) DO NOTHING;`
)

// ArchiveOrder stores the order and its line items in one transaction.
// Archiving the same order twice is a no-op.
func (a OrderArchive) ArchiveOrder(
	ctx context.Context, o domain.Order,
) (storeErr error) {
	const op = "OrderArchive.ArchiveOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := a.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	c := o.Customer
	res, err := tx.ExecContext(ctx, insertOrderQuery,
		o.ID, c.Name, c.Email, c.Phone, c.State, c.Address, c.Notes,
		o.Total.USD, o.Total.DZD, o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert order: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Info("order is already archived", "order_id", o.ID)
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertOrderItemQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, it := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.ID, i, it.ProductID, it.Name.En, it.Name.Ar, string(it.Platform),
			it.Price.USD, it.Price.DZD, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to insert item: %w", op, err)
		}
	}

	return nil
}

func (a OrderArchive) ArchiveProductRequest(
	ctx context.Context, r domain.ProductRequest,
) error {
	const op = "OrderArchive.ArchiveProductRequest"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c := r.Customer
	_, err := a.sqldb.ExecContext(ctx, insertProductRequestQuery,
		r.ID, r.ProductName, r.ProductURL, r.ProductDescription,
		c.Name, c.Email, c.Phone, c.State, c.Address, c.Notes, r.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountOrders reports the number of archived orders.
func (a OrderArchive) CountOrders(ctx context.Context) (int, error) {
	const op = "OrderArchive.CountOrders"

	var n int
	err := a.sqldb.QueryRowContext(ctx, `SELECT count(*) FROM orders;`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
)

func (p *Postgres) CreateOrderFromCart(ctx context.Context, userID int64) (order.Order, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return order.Order{}, wrapError(err)
	}
	defer tx.Rollback(ctx)

	crt, err := p.GetCartByUserID(ctx, userID)
	if err != nil {
		return order.Order{}, err
	}

	var ord order.Order
	ord.UserID = userID
	ord.Reference = uuid.NewString()
	ord.Status = order.StatusPending
	row := tx.QueryRow(ctx, `
		INSERT INTO orders (reference, user_id, status, total_amount)
		VALUES ($1, $2, $3, 0)
		RETURNING id, created_at, updated_at
	`, ord.Reference, ord.UserID, ord.Status)
	if err := row.Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		return order.Order{}, wrapError(err)
	}

	// snapshot cart rows at current catalog prices
	rows, err := tx.Query(ctx, `
		INSERT INTO order_items (order_id, smartphone_id, quantity, price)
		SELECT $1, ci.smartphone_id, ci.quantity, s.price
		FROM cart_items ci
		JOIN smartphones s ON s.id = ci.smartphone_id
		WHERE ci.cart_id = $2
		RETURNING id, smartphone_id, quantity, price
	`, ord.ID, crt.ID)
	if err != nil {
		return order.Order{}, wrapError(err)
	}
	for rows.Next() {
		it := order.OrderItem{OrderID: ord.ID}
		if err := rows.Scan(&it.ID, &it.SmartphoneID, &it.Quantity, &it.Price); err != nil {
			rows.Close()
			return order.Order{}, wrapError(err)
		}
		ord.Items = append(ord.Items, it)
		ord.TotalAmount += it.Price * it.Quantity
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return order.Order{}, wrapError(err)
	}
	if len(ord.Items) == 0 {
		return order.Order{}, fmt.Errorf("cart %d is empty: %w", crt.ID, apperrors.ErrBadRequest)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET total_amount = $2 WHERE id = $1
	`, ord.ID, ord.TotalAmount); err != nil {
		return order.Order{}, wrapError(err)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1
	`, crt.ID); err != nil {
		return order.Order{}, wrapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, wrapError(err)
	}
	return ord, nil
}

func (p *Postgres) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, reference, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)
	ord, err := scanOrder(row)
	if err != nil {
		return order.Order{}, err
	}
	ord.Items, err = p.getOrderItems(ctx, ord.ID)
	return ord, err
}

func (p *Postgres) GetOrders(ctx context.Context) ([]order.Order, error) {
	return p.queryOrders(ctx, `
		SELECT id, reference, user_id, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY id
	`)
}

func (p *Postgres) GetOrdersByUserID(ctx context.Context, userID int64) ([]order.Order, error) {
	return p.queryOrders(ctx, `
		SELECT id, reference, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id
	`, userID)
}

func (p *Postgres) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	tag, err := p.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return order.Order{}, wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.Order{}, wrapError(pgx.ErrNoRows)
	}
	return p.GetOrder(ctx, id)
}

func (p *Postgres) queryOrders(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []order.Order{}
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err)
	}
	for i := range out {
		items, err := p.getOrderItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (p *Postgres) getOrderItems(ctx context.Context, orderID int64) ([]order.OrderItem, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, order_id, smartphone_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []order.OrderItem{}
	for rows.Next() {
		var it order.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SmartphoneID, &it.Quantity, &it.Price); err != nil {
			return nil, wrapError(err)
		}
		out = append(out, it)
	}
	return out, wrapError(rows.Err())
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var ord order.Order
	err := row.Scan(&ord.ID, &ord.Reference, &ord.UserID, &ord.Status,
		&ord.TotalAmount, &ord.CreatedAt, &ord.UpdatedAt)
	return ord, wrapError(err)
}

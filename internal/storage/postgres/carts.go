package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

func (p *Postgres) GetCarts(ctx context.Context) ([]cart.Cart, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		ORDER BY id
	`)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []cart.Cart{}
	for rows.Next() {
		var c cart.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, wrapError(err)
		}
		out = append(out, c)
	}
	return out, wrapError(rows.Err())
}

func (p *Postgres) GetCart(ctx context.Context, id int64) (cart.Cart, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE id = $1
	`, id)
	return scanCart(row)
}

func (p *Postgres) GetCartByUserID(ctx context.Context, userID int64) (cart.Cart, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID)
	return scanCart(row)
}

func (p *Postgres) GetCartItem(ctx context.Context, id int64) (cart.CartItem, error) {
	row := p.db.QueryRow(ctx, `
		SELECT `+cartItemCols+`
		FROM cart_items ci
		JOIN smartphones s ON s.id = ci.smartphone_id
		WHERE ci.id = $1
	`, id)
	return scanCartItem(row)
}

func (p *Postgres) GetCartItems(ctx context.Context, cartID int64) ([]cart.CartItem, error) {
	if _, err := p.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	rows, err := p.db.Query(ctx, `
		SELECT `+cartItemCols+`
		FROM cart_items ci
		JOIN smartphones s ON s.id = ci.smartphone_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []cart.CartItem{}
	for rows.Next() {
		it, err := scanCartItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, wrapError(rows.Err())
}

func (p *Postgres) AddToCart(ctx context.Context, item cart.CartItem) (cart.CartItem, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	var id int64
	err := p.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, smartphone_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, smartphone_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id
	`, item.CartID, item.SmartphoneID, item.Quantity).Scan(&id)
	if err != nil {
		return cart.CartItem{}, wrapError(err)
	}
	p.touchCart(ctx, item.CartID)
	return p.GetCartItem(ctx, id)
}

func (p *Postgres) SetQuantity(ctx context.Context, item cart.CartItem) (cart.CartItem, error) {
	if item.Quantity < 1 {
		return cart.CartItem{}, fmt.Errorf("quantity must be positive: %w", apperrors.ErrBadRequest)
	}
	tag, err := p.db.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $3
		WHERE id = $1 AND cart_id = $2
	`, item.ID, item.CartID, item.Quantity)
	if err != nil {
		return cart.CartItem{}, wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return cart.CartItem{}, wrapError(pgx.ErrNoRows)
	}
	p.touchCart(ctx, item.CartID)
	return p.GetCartItem(ctx, item.ID)
}

func (p *Postgres) DeleteFromCart(ctx context.Context, cartID, itemID int64) (cart.CartItem, error) {
	item, err := p.GetCartItem(ctx, itemID)
	if err != nil {
		return cart.CartItem{}, err
	}
	if item.CartID != cartID {
		return cart.CartItem{}, fmt.Errorf("cart item %d: %w", itemID, apperrors.ErrNotFound)
	}
	if _, err := p.db.Exec(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND cart_id = $2
	`, itemID, cartID); err != nil {
		return cart.CartItem{}, wrapError(err)
	}
	p.touchCart(ctx, cartID)
	return item, nil
}

func (p *Postgres) touchCart(ctx context.Context, cartID int64) {
	_, _ = p.db.Exec(ctx, `
		UPDATE carts
		SET updated_at = now()
		WHERE id = $1
	`, cartID)
}

const cartItemCols = `ci.id, ci.cart_id, ci.smartphone_id, ci.quantity,
	s.id, s.model, s.producer, s.memory, s.ram, s.display_size, s.price,
	s.ratings_sum, s.ratings_count, s.image_path, s.description`

func scanCart(row pgx.Row) (cart.Cart, error) {
	var c cart.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, wrapError(err)
}

func scanCartItem(row pgx.Row) (cart.CartItem, error) {
	var it cart.CartItem
	it.Smartphone = &smartphone.Smartphone{}
	s := it.Smartphone
	err := row.Scan(&it.ID, &it.CartID, &it.SmartphoneID, &it.Quantity,
		&s.ID, &s.Model, &s.Producer, &s.Memory, &s.Ram, &s.DisplaySize, &s.Price,
		&s.RatingsSum, &s.RatingsCount, &s.ImagePath, &s.Description)
	return it, wrapError(err)
}

func scanCartItemFromRows(rows pgx.Rows) (cart.CartItem, error) {
	return scanCartItem(rows)
}

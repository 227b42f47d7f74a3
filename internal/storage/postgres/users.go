package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

func (p *Postgres) GetUser(ctx context.Context, id int64) (user.User, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, name, email, password, role, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (p *Postgres) GetUsers(ctx context.Context) ([]user.User, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, name, email, password, role, created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, wrapError(err)
		}
		out = append(out, u)
	}
	return out, wrapError(rows.Err())
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, name, email, password, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email))
	return scanUser(row)
}

// CreateUser inserts the user and their cart in one transaction.
func (p *Postgres) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return user.User{}, wrapError(err)
	}
	defer tx.Rollback(ctx)

	if u.Role == "" {
		u.Role = user.RoleUser
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, lower($2), $3, $4)
		RETURNING id, created_at
	`, u.Name, strings.TrimSpace(u.Email), u.Password, u.Role)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return user.User{}, wrapError(err)
	}

	crt := cart.Cart{UserID: u.ID}
	row = tx.QueryRow(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`, u.ID)
	if err := row.Scan(&crt.ID, &crt.CreatedAt, &crt.UpdatedAt); err != nil {
		return user.User{}, wrapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return user.User{}, wrapError(err)
	}
	u.Cart = &crt
	return u, nil
}

func (p *Postgres) UpdateUserPassword(ctx context.Context, userID int64, hash string) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE users
		SET password = $2
		WHERE id = $1
	`, userID, hash)
	if err != nil {
		return wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return wrapError(pgx.ErrNoRows)
	}
	return nil
}

func (p *Postgres) CreateTmpPassword(ctx context.Context, tp user.TmpPassword) (user.TmpPassword, error) {
	_, err := p.db.Exec(ctx, `
		INSERT INTO tmp_passwords (email, password, expires_at)
		VALUES (lower($1), $2, $3)
		ON CONFLICT (email)
		DO UPDATE SET password = EXCLUDED.password, expires_at = EXCLUDED.expires_at
	`, tp.Email, tp.Password, tp.ExpiresAt)
	return tp, wrapError(err)
}

func (p *Postgres) GetTmpPassword(ctx context.Context, email string) (user.TmpPassword, error) {
	var tp user.TmpPassword
	row := p.db.QueryRow(ctx, `
		SELECT email, password, expires_at
		FROM tmp_passwords
		WHERE email = lower($1)
	`, email)
	err := row.Scan(&tp.Email, &tp.Password, &tp.ExpiresAt)
	return tp, wrapError(err)
}

func (p *Postgres) DeleteTmpPassword(ctx context.Context, email string) error {
	tag, err := p.db.Exec(ctx, `
		DELETE FROM tmp_passwords
		WHERE email = lower($1)
	`, email)
	if err != nil {
		return wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return wrapError(pgx.ErrNoRows)
	}
	return nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	return u, wrapError(err)
}

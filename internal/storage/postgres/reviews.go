package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
)

func (p *Postgres) GetReview(ctx context.Context, id int64) (review.Review, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, smartphone_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`, id)
	return scanReview(row)
}

func (p *Postgres) GetReviews(ctx context.Context, smartphoneID int64) ([]review.Review, error) {
	if _, err := p.GetSmartphone(ctx, smartphoneID); err != nil {
		return nil, err
	}
	rows, err := p.db.Query(ctx, `
		SELECT id, smartphone_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE smartphone_id = $1
		ORDER BY id
	`, smartphoneID)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	out := []review.Review{}
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.SmartphoneID, &rv.UserID, &rv.Rating,
			&rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, wrapError(err)
		}
		out = append(out, rv)
	}
	return out, wrapError(rows.Err())
}

// CreateReview relies on the (smartphone_id, user_id) unique index
// for the one-review-per-user rule and keeps the smartphone's rating
// aggregate in step within the same transaction.
func (p *Postgres) CreateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return review.Review{}, wrapError(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO reviews (smartphone_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rv.SmartphoneID, rv.UserID, rv.Rating, rv.Comment)
	if err := row.Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return review.Review{}, wrapError(err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE smartphones
		SET ratings_sum = ratings_sum + $2, ratings_count = ratings_count + 1
		WHERE id = $1
	`, rv.SmartphoneID, rv.Rating); err != nil {
		return review.Review{}, wrapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return review.Review{}, wrapError(err)
	}
	return rv, nil
}

func (p *Postgres) UpdateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return review.Review{}, wrapError(err)
	}
	defer tx.Rollback(ctx)

	var oldRating int
	if err := tx.QueryRow(ctx, `
		SELECT rating FROM reviews WHERE id = $1
	`, rv.ID).Scan(&oldRating); err != nil {
		return review.Review{}, wrapError(err)
	}
	row := tx.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, smartphone_id, user_id, rating, comment, created_at, updated_at
	`, rv.ID, rv.Rating, rv.Comment)
	updated, err := scanReview(row)
	if err != nil {
		return review.Review{}, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE smartphones
		SET ratings_sum = ratings_sum + $2
		WHERE id = $1
	`, updated.SmartphoneID, updated.Rating-oldRating); err != nil {
		return review.Review{}, wrapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return review.Review{}, wrapError(err)
	}
	return updated, nil
}

func (p *Postgres) DeleteReview(ctx context.Context, id int64) (review.Review, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return review.Review{}, wrapError(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		DELETE FROM reviews
		WHERE id = $1
		RETURNING id, smartphone_id, user_id, rating, comment, created_at, updated_at
	`, id)
	deleted, err := scanReview(row)
	if err != nil {
		return review.Review{}, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE smartphones
		SET ratings_sum = ratings_sum - $2, ratings_count = ratings_count - 1
		WHERE id = $1
	`, deleted.SmartphoneID, deleted.Rating); err != nil {
		return review.Review{}, wrapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return review.Review{}, wrapError(err)
	}
	return deleted, nil
}

func scanReview(row pgx.Row) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.SmartphoneID, &rv.UserID, &rv.Rating,
		&rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, wrapError(err)
}

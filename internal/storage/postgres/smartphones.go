package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

const smartphoneCols = `id, model, producer, memory, ram, display_size, price,
	ratings_sum, ratings_count, image_path, description`

func (p *Postgres) GetSmartphone(ctx context.Context, id int64) (smartphone.Smartphone, error) {
	row := p.db.QueryRow(ctx, `
		SELECT `+smartphoneCols+`
		FROM smartphones
		WHERE id = $1
	`, id)
	return scanSmartphone(row)
}

func (p *Postgres) GetSmartphones(ctx context.Context) ([]smartphone.Smartphone, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+smartphoneCols+`
		FROM smartphones
		ORDER BY id
	`)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	return scanSmartphones(rows)
}

func (p *Postgres) GetSmartphonesByIDs(ctx context.Context, ids []int64) ([]smartphone.Smartphone, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+smartphoneCols+`
		FROM smartphones
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()
	return scanSmartphones(rows)
}

func scanSmartphone(row pgx.Row) (smartphone.Smartphone, error) {
	var s smartphone.Smartphone
	err := row.Scan(&s.ID, &s.Model, &s.Producer, &s.Memory, &s.Ram, &s.DisplaySize,
		&s.Price, &s.RatingsSum, &s.RatingsCount, &s.ImagePath, &s.Description)
	return s, wrapError(err)
}

func scanSmartphones(rows pgx.Rows) ([]smartphone.Smartphone, error) {
	out := []smartphone.Smartphone{}
	for rows.Next() {
		var s smartphone.Smartphone
		if err := rows.Scan(&s.ID, &s.Model, &s.Producer, &s.Memory, &s.Ram, &s.DisplaySize,
			&s.Price, &s.RatingsSum, &s.RatingsCount, &s.ImagePath, &s.Description); err != nil {
			return nil, wrapError(err)
		}
		out = append(out, s)
	}
	return out, wrapError(rows.Err())
}

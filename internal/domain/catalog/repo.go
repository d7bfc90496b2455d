package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// List строки bar_types в порядке position.
func (r *Repo) List(ctx context.Context) ([]MaterialType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, cost_per_unit, thickness
		FROM bar_types
		WHERE active = TRUE
		ORDER BY position, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MaterialType
	for rows.Next() {
		var t MaterialType
		if err := rows.Scan(&t.Name, &t.CostPerUnit, &t.Thickness); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Load собирает каталог из БД. Пустая таблица -> встроенный Default().
func (r *Repo) Load(ctx context.Context) (*Catalog, error) {
	types, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return New(Default())
	}
	return New(types)
}

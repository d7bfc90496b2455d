package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/poolscreen/internal/session"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Save заменяет проект чата целиком в одной транзакции.
func (r *Repo) Save(ctx context.Context, chatID int64, name string, recs []session.Record) (*Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := Project{ChatID: chatID, Name: name}
	if err := tx.QueryRow(ctx, `
		INSERT INTO projects (chat_id, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (chat_id) DO UPDATE SET name = $2, updated_at = now()
		RETURNING id, updated_at
	`, chatID, name).Scan(&p.ID, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert project: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_bars WHERE project_id = $1`, p.ID); err != nil {
		return nil, fmt.Errorf("clear project bars: %w", err)
	}
	if len(recs) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"project_bars"},
			barColumns,
			pgx.CopyFromRows(barRows(p.ID, recs)),
		); err != nil {
			return nil, fmt.Errorf("copy project bars: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	p.Bars = recs
	return &p, nil
}

// Load проект чата. Нет проекта -> ErrNotFound.
func (r *Repo) Load(ctx context.Context, chatID int64) (*Project, error) {
	p := Project{ChatID: chatID}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, updated_at FROM projects WHERE chat_id = $1
	`, chatID).Scan(&p.ID, &p.Name, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT bar_id, bar_type, length, start_x, start_y, end_x, end_y, colour
		FROM project_bars
		WHERE project_id = $1
		ORDER BY position
	`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec session.Record
			id  uuid.UUID
		)
		if err := rows.Scan(&id, &rec.BarType, &rec.Length,
			&rec.Start.X, &rec.Start.Y, &rec.End.X, &rec.End.Y, &rec.Color); err != nil {
			return nil, err
		}
		rec.ID = id
		p.Bars = append(p.Bars, rec)
	}
	return &p, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, chatID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE chat_id = $1`, chatID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package projects

import (
	"errors"
	"time"

	"github.com/Spok95/poolscreen/internal/session"
)

var ErrNotFound = errors.New("projects: not found")

// Project сохранённый проект чата. Один проект на чат.
type Project struct {
	ID        int64
	ChatID    int64
	Name      string
	UpdatedAt time.Time
	Bars      []session.Record
}

var barColumns = []string{
	"project_id", "position", "bar_id", "bar_type", "length",
	"start_x", "start_y", "end_x", "end_y", "colour",
}

// barRows строки project_bars для CopyFrom, position = порядок в инвентаре.
func barRows(projectID int64, recs []session.Record) [][]any {
	out := make([][]any, 0, len(recs))
	for i, r := range recs {
		out = append(out, []any{
			projectID, i, r.ID, r.BarType, r.Length,
			r.Start.X, r.Start.Y, r.End.X, r.End.Y, r.Color,
		})
	}
	return out
}

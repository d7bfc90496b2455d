package barstore

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidPayload = errors.New("barstore: invalid payload")

// Bar запись хранилища. Форма ответа: {type, length, position}.
type Bar struct {
	Type     string          `json:"type"`
	Length   float64         `json:"length"`
	Position json.RawMessage `json:"position"`
}

// Store хранилище брусьев. Содержимое не валидируется.
type Store interface {
	Add(ctx context.Context, b Bar) ([]Bar, error)
	List(ctx context.Context) ([]Bar, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// addRequest принимает и {type, length, position}, и событие форвардера
// {bar_type, length, start_x, start_y, end_x, end_y}.
type addRequest struct {
	Type     string          `json:"type"`
	Length   float64         `json:"length"`
	Position json.RawMessage `json:"position"`

	BarType string   `json:"bar_type"`
	StartX  *float64 `json:"start_x"`
	StartY  *float64 `json:"start_y"`
	EndX    *float64 `json:"end_x"`
	EndY    *float64 `json:"end_y"`
}

func (r addRequest) bar() (Bar, error) {
	b := Bar{Type: r.Type, Length: r.Length, Position: r.Position}
	if b.Type == "" && r.BarType != "" {
		b.Type = r.BarType
	}
	if len(b.Position) == 0 && r.StartX != nil {
		pos := struct {
			Start point `json:"start"`
			End   point `json:"end"`
		}{
			Start: point{X: deref(r.StartX), Y: deref(r.StartY)},
			End:   point{X: deref(r.EndX), Y: deref(r.EndY)},
		}
		raw, err := json.Marshal(pos)
		if err != nil {
			return Bar{}, err
		}
		b.Position = raw
	}
	if len(b.Position) == 0 {
		b.Position = json.RawMessage("null")
	}
	return b, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/poolscreen/internal/dialog"
	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/domain/projects"
	"github.com/Spok95/poolscreen/internal/session"
)

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// mode текущее состояние диалога и режим рисования чата.
func (b *Bot) mode(ctx context.Context, chatID int64) (dialog.State, dialog.Mode) {
	it, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state", "chat_id", chatID, "err", err)
		return dialog.StateIdle, dialog.Mode{}
	}
	return it.State, dialog.ModeOf(it.Payload)
}

func (b *Bot) setMode(ctx context.Context, chatID int64, st dialog.State, m dialog.Mode) {
	if err := b.states.Set(ctx, chatID, st, m.Payload()); err != nil {
		b.log.Error("save dialog state", "chat_id", chatID, "err", err)
	}
}

// parseNumber число из ввода пользователя, запятая допускается как разделитель.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func parseNumbers(fields []string, n int) ([]float64, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := parseNumber(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func shortID(id bars.ID) string { return id.String()[:8] }

// userError текст ошибки для пользователя.
func userError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNoMaterialSelected):
		return "Select a bar type first: /type"
	case errors.Is(err, catalog.ErrUnknownMaterial):
		return "Unknown bar type. See /type for the list."
	case errors.Is(err, bars.ErrInvalidLength):
		return "Length must be a non-negative number of feet."
	case errors.Is(err, inventory.ErrBarNotFound):
		return "Bar not found. See /bars for ids."
	case errors.Is(err, session.ErrAmbiguousID):
		return "Several bars match this id, type more characters."
	case errors.Is(err, projects.ErrNotFound):
		return "No saved project for this chat."
	default:
		return "Something went wrong, try again."
	}
}

func describe(p session.Placed) string {
	return fmt.Sprintf("%s  %s  %s", shortID(p.ID), p.Label, session.FormatCost(p.Cost))
}

func properties(p session.Placed) string {
	return fmt.Sprintf(
		"Bar %s\nType: %s\nLength: %.2f ft\nPrice: %s (%s/ft)\nFrom: (%.1f, %.1f)\nTo: (%.1f, %.1f)\nColor: %s",
		p.ID, p.Material.Name, p.Length,
		session.FormatCost(p.Cost), strconv.FormatFloat(p.Material.CostPerUnit, 'f', -1, 64),
		p.Start.X, p.Start.Y, p.End.X, p.End.Y, p.Color,
	)
}

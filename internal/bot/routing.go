package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/dialog"
	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/geometry"
	"github.com/Spok95/poolscreen/internal/session"
)

const helpText = `Pool screen designer. Coordinates are canvas pixels, 10 px = 1 ft.

/type - choose the bar type to draw
/draw x1 y1 x2 y2 - place a bar
/snap on|off - snap drawing to 45°
/color [name] - line color
/bars - list bars
/bar <id> - bar properties
/length <id> <ft> - set exact length
/retype <id> <type> - change bar type
/move <id> dx dy - move a bar
/delete <id> - delete a bar
/undo - undo the last add or delete
/inventory - counts by type
/total - total cost
/export - inventory report (xlsx)
/prices - price list (xlsx)
/save [name], /load - project storage
/clear - start a new project
/cancel - cancel the current prompt`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		m := tgbotapi.NewMessage(chatID, helpText)
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)

	case "type":
		b.showMaterials(chatID)

	case "draw":
		b.cmdDraw(ctx, chatID, args)

	case "snap":
		b.cmdSnap(ctx, chatID, args)

	case "color":
		b.cmdColor(ctx, chatID, args)

	case "bars":
		b.showBars(chatID)

	case "bar":
		if len(args) != 1 {
			b.reply(chatID, "Usage: /bar <id>")
			return
		}
		b.showBar(chatID, args[0])

	case "length":
		if len(args) != 2 {
			b.reply(chatID, "Usage: /length <id> <ft>")
			return
		}
		b.cmdLength(chatID, args[0], args[1])

	case "retype":
		if len(args) < 2 {
			b.reply(chatID, "Usage: /retype <id> <type>")
			return
		}
		b.cmdRetype(chatID, args[0], strings.Join(args[1:], " "))

	case "move":
		b.cmdMove(chatID, args)

	case "delete":
		if len(args) != 1 {
			b.reply(chatID, "Usage: /delete <id>")
			return
		}
		b.cmdDelete(chatID, args[0])

	case "undo":
		b.cmdUndo(chatID)

	case "inventory":
		b.showInventory(chatID)

	case "total":
		b.sessions.with(chatID, func(s *session.Session) {
			b.reply(chatID, session.StatusLine(s.TotalCost()))
		})

	case "export":
		b.sendInventoryReport(chatID)

	case "prices":
		b.sendPriceList(chatID)

	case "save":
		if len(args) == 0 {
			_, m := b.mode(ctx, chatID)
			b.setMode(ctx, chatID, dialog.StateAwaitProjectName, m)
			msg := tgbotapi.NewMessage(chatID, "Send a name for the project.")
			msg.ReplyMarkup = navKeyboard(true)
			b.send(msg)
			return
		}
		b.saveProject(ctx, chatID, strings.Join(args, " "))

	case "load":
		b.loadProject(ctx, chatID)

	case "clear":
		m := tgbotapi.NewMessage(chatID, "Remove all bars and start a new project?")
		m.ReplyMarkup = confirmClearKeyboard()
		b.send(m)

	case "cancel":
		_, m := b.mode(ctx, chatID)
		m.Bar = ""
		b.setMode(ctx, chatID, dialog.StateIdle, m)
		b.reply(chatID, "Cancelled.")

	case "stats":
		if chatID != b.adminChat {
			b.reply(chatID, "Access denied.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Open sessions: %d", b.sessions.len()))

	default:
		b.reply(chatID, "Unknown command. Send /help")
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Нижняя панель
	switch text {
	case btnType:
		b.showMaterials(chatID)
		return
	case btnBars:
		b.showBars(chatID)
		return
	case btnInventory:
		b.showInventory(chatID)
		return
	case btnUndo:
		b.cmdUndo(chatID)
		return
	case btnExport:
		b.sendInventoryReport(chatID)
		return
	case btnPrices:
		b.sendPriceList(chatID)
		return
	}

	st, m := b.mode(ctx, chatID)
	switch st {
	case dialog.StateAwaitLength, dialog.StateAwaitEditLength:
		l, err := parseNumber(text)
		if err != nil || l < 0 {
			b.reply(chatID, "Send the length in feet, for example 12.5")
			return
		}
		// 0 после рисования: оставить нарисованную длину
		if l == 0 && st == dialog.StateAwaitLength {
			b.reply(chatID, "Keeping the drawn length.")
		} else {
			b.cmdLength(chatID, m.Bar, text)
		}
		m.Bar = ""
		b.setMode(ctx, chatID, dialog.StateIdle, m)

	case dialog.StateAwaitProjectName:
		if text == "" {
			b.reply(chatID, "The name must not be empty.")
			return
		}
		b.setMode(ctx, chatID, dialog.StateIdle, m)
		b.saveProject(ctx, chatID, text)

	default:
		b.reply(chatID, "Send /help for the list of commands.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	switch {
	case data == "nav:cancel":
		_, m := b.mode(ctx, chatID)
		m.Bar = ""
		b.setMode(ctx, chatID, dialog.StateIdle, m)
		b.editTextAndClear(chatID, msgID, "Cancelled.")
		_ = b.answerCallback(cb, "Cancelled", false)

	case strings.HasPrefix(data, "mat:"):
		t, ok := b.materialAt(strings.TrimPrefix(data, "mat:"))
		if !ok {
			_ = b.answerCallback(cb, "Unknown bar type", true)
			return
		}
		st, m := b.mode(ctx, chatID)
		m.Material = t.Name
		b.setMode(ctx, chatID, st, m)
		b.editTextAndClear(chatID, msgID, fmt.Sprintf("Drawing with %s. Place bars with /draw x1 y1 x2 y2", t.Name))
		_ = b.answerCallback(cb, t.Name, false)

	case strings.HasPrefix(data, "color:"):
		c := strings.TrimPrefix(data, "color:")
		st, m := b.mode(ctx, chatID)
		m.Color = c
		b.setMode(ctx, chatID, st, m)
		b.editTextAndClear(chatID, msgID, "Line color: "+c)
		_ = b.answerCallback(cb, c, false)

	case strings.HasPrefix(data, "bar:del:"):
		b.cmdDelete(chatID, strings.TrimPrefix(data, "bar:del:"))
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "bar:len:"):
		_, m := b.mode(ctx, chatID)
		m.Bar = strings.TrimPrefix(data, "bar:len:")
		b.setMode(ctx, chatID, dialog.StateAwaitEditLength, m)
		msg := tgbotapi.NewMessage(chatID, "Send the new length in feet.")
		msg.ReplyMarkup = navKeyboard(true)
		b.send(msg)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "bar:type:"):
		id := strings.TrimPrefix(data, "bar:type:")
		msg := tgbotapi.NewMessage(chatID, "Choose the new bar type:")
		msg.ReplyMarkup = materialKeyboard(b.cat, "retype:"+id)
		b.send(msg)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "retype:"):
		rest := strings.TrimPrefix(data, "retype:")
		i := strings.LastIndexByte(rest, ':')
		if i < 0 {
			_ = b.answerCallback(cb, "Bad request", true)
			return
		}
		t, ok := b.materialAt(rest[i+1:])
		if !ok {
			_ = b.answerCallback(cb, "Unknown bar type", true)
			return
		}
		b.editTextAndClear(chatID, msgID, "Bar type: "+t.Name)
		b.cmdRetype(chatID, rest[:i], t.Name)
		_ = b.answerCallback(cb, t.Name, false)

	case data == "clear:yes":
		b.sessions.with(chatID, func(s *session.Session) {
			s.Reset()
		})
		b.editTextAndClear(chatID, msgID, "New project started. "+session.StatusLine(decimal.Zero))
		_ = b.answerCallback(cb, "Cleared", false)

	default:
		_ = b.answerCallback(cb, "Unknown action", false)
	}
}

func (b *Bot) materialAt(idx string) (catalog.MaterialType, bool) {
	i, err := strconv.Atoi(idx)
	if err != nil || i <= 0 {
		return catalog.MaterialType{}, false
	}
	return b.cat.At(i)
}

/*** Операции над сессией ***/

func (b *Bot) showMaterials(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Choose the bar type:")
	m.ReplyMarkup = materialKeyboard(b.cat, "mat")
	b.send(m)
}

func (b *Bot) cmdDraw(ctx context.Context, chatID int64, args []string) {
	nums, err := parseNumbers(args, 4)
	if err != nil {
		b.reply(chatID, "Usage: /draw x1 y1 x2 y2")
		return
	}
	_, m := b.mode(ctx, chatID)

	mat := b.cat.Sentinel()
	if m.Material != "" {
		t, ok := b.cat.ByName(m.Material)
		if !ok {
			b.reply(chatID, userError(catalog.ErrUnknownMaterial))
			return
		}
		mat = t
	}

	start, end := geometry.Pt(nums[0], nums[1]), geometry.Pt(nums[2], nums[3])
	if m.Snap {
		end = geometry.Snap45(start, end)
	}

	var (
		placed session.Placed
		total  string
	)
	b.sessions.with(chatID, func(s *session.Session) {
		placed, err = s.BeginAdd(mat, start, end, m.Color)
		total = session.StatusLine(s.TotalCost())
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}

	m.Bar = placed.ID.String()
	b.setMode(ctx, chatID, dialog.StateAwaitLength, m)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Added %s\n%s\n\nSend the exact length in feet, or 0 to keep the drawn length.",
		describe(placed), total,
	))
	msg.ReplyMarkup = navKeyboard(true)
	b.send(msg)
}

func (b *Bot) cmdSnap(ctx context.Context, chatID int64, args []string) {
	st, m := b.mode(ctx, chatID)
	switch {
	case len(args) == 0:
		m.Snap = !m.Snap
	case args[0] == "on":
		m.Snap = true
	case args[0] == "off":
		m.Snap = false
	default:
		b.reply(chatID, "Usage: /snap on|off")
		return
	}
	b.setMode(ctx, chatID, st, m)
	if m.Snap {
		b.reply(chatID, "45° snap is on.")
	} else {
		b.reply(chatID, "45° snap is off.")
	}
}

func (b *Bot) cmdColor(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		m := tgbotapi.NewMessage(chatID, "Choose the line color:")
		m.ReplyMarkup = colorKeyboard()
		b.send(m)
		return
	}
	st, m := b.mode(ctx, chatID)
	m.Color = strings.ToLower(args[0])
	b.setMode(ctx, chatID, st, m)
	b.reply(chatID, "Line color: "+m.Color)
}

// cmdLength ref: полный id или уникальный префикс.
func (b *Bot) cmdLength(chatID int64, ref, value string) {
	l, err := parseNumber(value)
	if err != nil {
		b.reply(chatID, "Length must be a number of feet.")
		return
	}
	var (
		placed session.Placed
		total  string
	)
	b.sessions.with(chatID, func(s *session.Session) {
		var id bars.ID
		if id, err = s.Find(ref); err != nil {
			return
		}
		if placed, err = s.EditLength(id, l); err != nil {
			return
		}
		total = session.StatusLine(s.TotalCost())
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Updated %s\n%s", describe(placed), total))
}

func (b *Bot) cmdRetype(chatID int64, ref, typeName string) {
	t, ok := b.cat.Lookup(typeName)
	if !ok {
		b.reply(chatID, userError(catalog.ErrUnknownMaterial))
		return
	}
	var (
		placed session.Placed
		total  string
		err    error
	)
	b.sessions.with(chatID, func(s *session.Session) {
		var id bars.ID
		if id, err = s.Find(ref); err != nil {
			return
		}
		if placed, err = s.EditMaterial(id, t.Name); err != nil {
			return
		}
		total = session.StatusLine(s.TotalCost())
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Updated %s\n%s", describe(placed), total))
}

func (b *Bot) cmdMove(chatID int64, args []string) {
	if len(args) != 3 {
		b.reply(chatID, "Usage: /move <id> dx dy")
		return
	}
	d, err := parseNumbers(args[1:], 2)
	if err != nil {
		b.reply(chatID, "Usage: /move <id> dx dy")
		return
	}
	var placed session.Placed
	b.sessions.with(chatID, func(s *session.Session) {
		var id bars.ID
		if id, err = s.Find(args[0]); err != nil {
			return
		}
		placed, err = s.Move(id, d[0], d[1])
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Moved %s to (%.1f, %.1f) → (%.1f, %.1f)",
		shortID(placed.ID), placed.Start.X, placed.Start.Y, placed.End.X, placed.End.Y))
}

func (b *Bot) cmdDelete(chatID int64, ref string) {
	var (
		placed session.Placed
		total  string
		err    error
	)
	b.sessions.with(chatID, func(s *session.Session) {
		var id bars.ID
		if id, err = s.Find(ref); err != nil {
			return
		}
		if placed, err = s.Remove(id); err != nil {
			return
		}
		total = session.StatusLine(s.TotalCost())
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Deleted %s\n%s", describe(placed), total))
}

func (b *Bot) cmdUndo(chatID int64) {
	var (
		e     session.Entry
		ok    bool
		total string
	)
	b.sessions.with(chatID, func(s *session.Session) {
		e, ok = s.Undo()
		total = session.StatusLine(s.TotalCost())
	})
	if !ok {
		b.reply(chatID, "Nothing to undo.")
		return
	}
	verb := "Removed"
	if e.Op == session.OpDelete {
		verb = "Restored"
	}
	b.reply(chatID, fmt.Sprintf("%s %s %s\n%s", verb, shortID(e.Bar.ID()), e.Bar.Label(), total))
}

func (b *Bot) showBars(chatID int64) {
	var (
		list  []session.Placed
		total string
	)
	b.sessions.with(chatID, func(s *session.Session) {
		list = s.Placements()
		total = session.StatusLine(s.TotalCost())
	})
	if len(list) == 0 {
		b.reply(chatID, "No bars yet. Choose a type with /type and draw with /draw.")
		return
	}
	var sb strings.Builder
	for _, p := range list {
		sb.WriteString(describe(p))
		sb.WriteByte('\n')
	}
	sb.WriteString(total)
	b.reply(chatID, sb.String())
}

func (b *Bot) showBar(chatID int64, ref string) {
	var (
		placed session.Placed
		err    error
	)
	b.sessions.with(chatID, func(s *session.Session) {
		var id bars.ID
		if id, err = s.Find(ref); err != nil {
			return
		}
		placed, err = s.Placement(id)
	})
	if err != nil {
		b.reply(chatID, userError(err))
		return
	}
	m := tgbotapi.NewMessage(chatID, properties(placed))
	m.ReplyMarkup = barKeyboard(placed)
	b.send(m)
}

func (b *Bot) showInventory(chatID int64) {
	var text string
	b.sessions.with(chatID, func(s *session.Session) {
		text = session.InventoryTable(s.Counts()) + "\n" + session.StatusLine(s.TotalCost())
	})
	b.reply(chatID, text)
}

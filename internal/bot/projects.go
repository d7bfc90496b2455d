package bot

import (
	"context"
	"fmt"

	"github.com/Spok95/poolscreen/internal/session"
)

func (b *Bot) saveProject(ctx context.Context, chatID int64, name string) {
	if b.projects == nil {
		b.reply(chatID, "Project storage is not configured.")
		return
	}
	var recs []session.Record
	b.sessions.with(chatID, func(s *session.Session) {
		recs = s.Records()
	})

	p, err := b.projects.Save(ctx, chatID, name, recs)
	if err != nil {
		b.log.Error("save project", "chat_id", chatID, "err", err)
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Saved %q: %d bars.", p.Name, len(recs)))
}

// loadProject заменяет текущий проект сохранённым. Журнал отмены очищается.
func (b *Bot) loadProject(ctx context.Context, chatID int64) {
	if b.projects == nil {
		b.reply(chatID, "Project storage is not configured.")
		return
	}
	p, err := b.projects.Load(ctx, chatID)
	if err != nil {
		b.log.Warn("load project", "chat_id", chatID, "err", err)
		b.reply(chatID, userError(err))
		return
	}

	var total string
	b.sessions.with(chatID, func(s *session.Session) {
		if err = s.Restore(p.Bars); err != nil {
			return
		}
		total = session.StatusLine(s.TotalCost())
	})
	if err != nil {
		b.log.Error("restore project", "chat_id", chatID, "project_id", p.ID, "err", err)
		b.reply(chatID, userError(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Loaded %q: %d bars.\n%s", p.Name, len(p.Bars), total))
}

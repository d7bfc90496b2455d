package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/poolscreen/internal/report"
	"github.com/Spok95/poolscreen/internal/session"
)

// sendInventoryReport XLSX с брусьями проекта и сводкой по типам.
func (b *Bot) sendInventoryReport(chatID int64) {
	var (
		data  []byte
		n     int
		total string
		err   error
	)
	b.sessions.with(chatID, func(s *session.Session) {
		n = s.Len()
		if n == 0 {
			return
		}
		data, err = report.Inventory(s.Placements(), s.Summary(), s.TotalCost())
		total = session.StatusLine(s.TotalCost())
	})
	if n == 0 {
		b.reply(chatID, "Nothing to export: the project has no bars.")
		return
	}
	if err != nil {
		b.log.Error("inventory report", "chat_id", chatID, "err", err)
		b.reply(chatID, "Failed to build the file.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  report.FileName("inventory", time.Now()),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Bars: %d\n%s", n, total)
	b.send(doc)
}

// sendPriceList XLSX с каталогом материалов.
func (b *Bot) sendPriceList(chatID int64) {
	data, err := report.Prices(b.cat)
	if err != nil {
		b.log.Error("price list", "chat_id", chatID, "err", err)
		b.reply(chatID, "Failed to build the file.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  report.FileName("prices", time.Now()),
		Bytes: data,
	})
	doc.Caption = "Bar types and cost per foot."
	b.send(doc)
}

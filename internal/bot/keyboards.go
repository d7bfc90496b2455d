package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/session"
)

// Цвета линий, как в палитре рисования.
var colors = []string{"white", "black", "red", "green", "blue", "yellow", "gray"}

func navKeyboard(cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// materialKeyboard типы по два в строке. prefix: "mat" выбор для рисования,
// "retype:<id>" смена типа бруса. В callback передаётся индекс в каталоге.
func materialKeyboard(cat *catalog.Catalog, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := 1; i < cat.Len(); i++ {
		t, _ := cat.At(i)
		label := fmt.Sprintf("%s · $%s/ft", t.Name, strconv.FormatFloat(t.CostPerUnit, 'f', -1, 64))
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%d", prefix, i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func colorKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range colors {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c, "color:"+c))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// barKeyboard действия над брусом из карточки свойств.
func barKeyboard(p session.Placed) tgbotapi.InlineKeyboardMarkup {
	id := p.ID.String()
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📏 Length", "bar:len:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Type", "bar:type:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "bar:del:"+id),
		),
	)
}

func confirmClearKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear project", "clear:yes"),
		),
		navKeyboard(true).InlineKeyboard[0],
	)
}

// mainReplyKeyboard нижняя панель
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnType), tgbotapi.NewKeyboardButton(btnBars)},
			{tgbotapi.NewKeyboardButton(btnInventory), tgbotapi.NewKeyboardButton(btnUndo)},
			{tgbotapi.NewKeyboardButton(btnExport), tgbotapi.NewKeyboardButton(btnPrices)},
		},
	}
}

const (
	btnType      = "Bar type"
	btnBars      = "Bars"
	btnInventory = "Inventory"
	btnUndo      = "Undo"
	btnExport    = "Export"
	btnPrices    = "Prices"
)

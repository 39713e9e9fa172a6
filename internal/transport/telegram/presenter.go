package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviesearch/internal/domain"
)

const maxButtonLabel = 30

// renderResponse turns one assembled search response into the message text
// and the inline keyboard of link buttons. Every item contributes at least
// one button: a verified asset, a direct clip link, or the fallback page.
func renderResponse(model domain.ResponseModel) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	fmt.Fprintf(&text, "Results for %q", model.DisplayTitle)
	if model.DisplayTitle != model.Query {
		fmt.Fprintf(&text, " (searched as %q)", model.Query)
	}
	text.WriteString("\n")

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(model.Items))
	for i, item := range model.Items {
		fmt.Fprintf(&text, "\n%d. %s", i+1, item.Title)
		switch {
		case len(item.Assets) > 0:
			for _, asset := range item.Assets {
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonURL(buttonLabel(asset.Label), asset.URL),
				))
			}
		case item.Link != "":
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(buttonLabel(item.Title), item.Link),
			))
		case item.FallbackLink != "":
			text.WriteString(" (no direct file, page link below)")
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(buttonLabel(item.Title), item.FallbackLink),
			))
		}
	}

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buttonLabel keeps inline button captions short enough to render on one
// line in most clients.
func buttonLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "Open"
	}
	runes := []rune(trimmed)
	if len(runes) <= maxButtonLabel {
		return trimmed
	}
	return string(runes[:maxButtonLabel]) + "..."
}

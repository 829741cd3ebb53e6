package telegram

import (
	"html"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
)

var boldPattern = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)

// render turns response messages into Telegram messages, in order.
func render(chatID int64, msgs []dialog.Message) []tgbotapi.Chattable {
	out := make([]tgbotapi.Chattable, 0, len(msgs))
	for _, m := range msgs {
		switch m.ContentType {
		case dialog.ContentImageCard:
			if m.ImageResponseCard == nil {
				continue
			}
			out = append(out, renderCard(chatID, *m.ImageResponseCard))
		case dialog.ContentCustomPayload:
			out = append(out, newHTMLMessage(chatID, payloadToHTML(m.Content)))
		default:
			out = append(out, newHTMLMessage(chatID, html.EscapeString(m.Content)))
		}
	}
	return out
}

// renderCard sends image cards as photos and button cards as text with an
// inline keyboard.
func renderCard(chatID int64, card dialog.ImageResponseCard) tgbotapi.Chattable {
	caption := "<b>" + html.EscapeString(card.Title) + "</b>"
	if card.Subtitle != "" {
		caption += "\n" + html.EscapeString(card.Subtitle)
	}
	kb := buildButtonsKeyboard(card.Buttons)

	if card.ImageURL != "" {
		p := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(card.ImageURL))
		p.Caption = caption
		p.ParseMode = tgbotapi.ModeHTML
		if kb != nil {
			p.ReplyMarkup = *kb
		}
		return p
	}

	msg := newHTMLMessage(chatID, caption)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return msg
}

// payloadToHTML converts the custom payload markup (***bold*** and <br />)
// to Telegram HTML.
func payloadToHTML(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "&lt;br /&gt;", "\n")
	s = strings.ReplaceAll(s, "&lt;br&gt;", "\n")
	return boldPattern.ReplaceAllString(s, "<b>$1</b>")
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

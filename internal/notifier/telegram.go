package notifier

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	api     *tgbotapi.BotAPI
	channel string
	log     zerolog.Logger
}

// NewTelegram creates a notifier that broadcasts to channel.
func NewTelegram(api *tgbotapi.BotAPI, channel string, log zerolog.Logger) *Telegram {
	return &Telegram{api: api, channel: channel, log: log}
}

// Send delivers a direct message to chatID. If an HTML-formatted send is
// rejected it is retried once without formatting.
func (t *Telegram) Send(chatID string, text string, opts Options) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		t.log.Error().Err(err).Str("chat_id", chatID).Msg("invalid chat id")
		return
	}

	msg := tgbotapi.NewMessage(id, text)
	if opts.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	msg.DisableWebPagePreview = opts.DisableLinkPreview

	if _, err := t.api.Send(msg); err != nil {
		t.log.Error().Err(err).Str("chat_id", chatID).Msg("send failed")
		if opts.HTML {
			msg.ParseMode = ""
			if _, err := t.api.Send(msg); err != nil {
				t.log.Error().Err(err).Str("chat_id", chatID).Msg("plain-text retry failed")
			}
		}
	}
}

// Broadcast posts to the configured channel. Link previews stay enabled so
// the store page renders in the channel feed.
func (t *Telegram) Broadcast(text string) {
	msg := tgbotapi.NewMessageToChannel(t.channel, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.api.Send(msg); err != nil {
		t.log.Error().Err(err).Str("channel", t.channel).Msg("broadcast failed")
	}
}

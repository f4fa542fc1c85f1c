package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Init connects to the Telegram Bot API.
func Init(token string, log zerolog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("telegram token invalid or expired; get one from @BotFather")
		}
		return nil, fmt.Errorf("telegram connect: %w", err)
	}

	api.Debug = false
	log.Info().Str("username", api.Self.UserName).Msg("bot authorized")
	return api, nil
}

// Run consumes inbound updates until the channel closes. The client keeps
// the long-poll offset past the last consumed update id, so updates are
// never redelivered.
func (h *Handler) Run(api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range api.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
		h.HandleMessage(chatID, update.Message.Text)
	}
}

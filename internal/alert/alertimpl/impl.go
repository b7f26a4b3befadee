package alertimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashfeed/hashfeed/internal/alert"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger logger.Logger
}

// New builds the Telegram alerter. Without a token it degrades to a log-only
// notifier so deployments that skip Telegram still surface alerts somewhere.
func New(opts Opts) (*TelegramImpl, error) {
	log := opts.Logger.WithComponent("Alerter")

	if opts.Config.Telegram.Token == "" {
		log.Info("Telegram token not configured, alerts go to the log only")
		return &TelegramImpl{logger: log}, nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "Error", err)
		return nil, err
	}

	return &TelegramImpl{
		bot:    bot,
		chatID: opts.Config.Telegram.ChatID,
		logger: log,
	}, nil
}

var _ alert.Client = (*TelegramImpl)(nil)

func (t *TelegramImpl) Notify(msg string) {
	t.logger.Warn("Operator alert", "message", msg)
	if t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, msg)); err != nil {
		t.logger.Error("Failed to send alert", "error", err)
	}
}

// Package telegram serves the search pipeline over a Telegram bot: one
// incoming message is one query, answered with link buttons.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviesearch/internal/domain"
	"moviesearch/internal/search"
)

// Searcher is the slice of the aggregation service the bot needs.
type Searcher interface {
	HandleQuery(ctx context.Context, query string) (domain.ResponseModel, error)
}

const (
	startReply = "Send me a movie name and I will look for watchable copies " +
		"and related clips. You can also use /search <title>."
	searchingReply = "Searching, give me a moment..."
	noResultsReply = "No results found. Check the spelling or try another title."
	failureReply   = "Something went wrong on my side. Try again in a bit."

	updateTimeout = 60
	queryTimeout  = 45 * time.Second
)

type Bot struct {
	api      *tgbotapi.BotAPI
	searcher Searcher
	logger   *slog.Logger
}

type Config struct {
	Token    string
	Searcher Searcher
	Logger   *slog.Logger
}

func NewBot(cfg Config) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is required")
	}
	if cfg.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{api: api, searcher: cfg.Searcher, logger: logger}, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(updateCfg)

	b.logger.Info("telegram bot started", slog.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("message handler panic",
				slog.Int64("chatID", message.Chat.ID),
				slog.Any("error", recovered),
			)
			b.send(tgbotapi.NewMessage(message.Chat.ID, failureReply))
		}
	}()

	query := strings.TrimSpace(message.Text)
	switch {
	case message.IsCommand() && message.Command() == "start":
		b.send(tgbotapi.NewMessage(message.Chat.ID, startReply))
		return
	case message.IsCommand() && message.Command() == "search":
		query = strings.TrimSpace(message.CommandArguments())
	case message.IsCommand():
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Unknown command. "+startReply))
		return
	}
	if query == "" {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Give me a movie name to search for."))
		return
	}

	placeholder := b.send(tgbotapi.NewMessage(message.Chat.ID, searchingReply))

	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	model, err := b.searcher.HandleQuery(queryCtx, query)
	if err != nil {
		reply := failureReply
		if errors.Is(err, search.ErrNoResults) || errors.Is(err, search.ErrInvalidQuery) {
			reply = noResultsReply
		}
		b.replaceOrSend(message.Chat.ID, placeholder, reply)
		return
	}

	b.deletePlaceholder(message.Chat.ID, placeholder)
	b.sendResults(message.Chat.ID, model)
}

func (b *Bot) sendResults(chatID int64, model domain.ResponseModel) {
	text, keyboard := renderResponse(model)

	if model.CoverImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(model.CoverImageURL))
		photo.Caption = text
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err == nil {
			return
		}
		// Broken poster URLs should not cost the user their results.
		b.logger.Warn("cover send failed, falling back to text",
			slog.Int64("chatID", chatID),
			slog.String("cover", model.CoverImageURL),
		)
	}

	message := tgbotapi.NewMessage(chatID, text)
	message.ReplyMarkup = keyboard
	b.send(message)
}

// replaceOrSend edits the placeholder in place when it exists, otherwise
// sends a fresh message.
func (b *Bot) replaceOrSend(chatID int64, placeholder *tgbotapi.Message, text string) {
	if placeholder != nil {
		edit := tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, text)
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) deletePlaceholder(chatID int64, placeholder *tgbotapi.Message) {
	if placeholder == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, placeholder.MessageID)); err != nil {
		b.logger.Debug("placeholder delete failed",
			slog.Int64("chatID", chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (b *Bot) send(chattable tgbotapi.Chattable) *tgbotapi.Message {
	sent, err := b.api.Send(chattable)
	if err != nil {
		b.logger.Warn("telegram send failed", slog.String("error", err.Error()))
		return nil
	}
	return &sent
}

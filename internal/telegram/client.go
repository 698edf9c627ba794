// Package telegram adapts the Telegram Bot API to the bot's transport
// contracts: the poller's blocking long-poll source and the command
// processor's reply sender.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vouch/internal/command"
)

// Client wraps an authorized Bot API session.
type Client struct {
	bot     *tgbotapi.BotAPI
	logger  *slog.Logger
	timeout int
	// offset is the next update id to request. Only the poll loop touches
	// it; the supervisor guarantees a single live loop.
	offset int
}

// New authorizes against the Bot API and fails fast on a bad token.
// pollTimeout is the long-poll window handed to getUpdates.
func New(token string, pollTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	logger.Info("telegram bot authorized", "username", bot.Self.UserName)
	return &Client{
		bot:     bot,
		logger:  logger,
		timeout: int(pollTimeout.Seconds()),
	}, nil
}

// Poll issues one blocking getUpdates call. The Bot API holds the request
// open up to the configured timeout, so an empty batch with a nil error is
// the normal quiet-channel result.
func (c *Client) Poll(ctx context.Context) ([]command.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := tgbotapi.NewUpdate(c.offset)
	cfg.Timeout = c.timeout

	updates, err := c.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	msgs := make([]command.Message, 0, len(updates))
	for _, u := range updates {
		if u.UpdateID >= c.offset {
			c.offset = u.UpdateID + 1
		}
		if msg, ok := toCommandMessage(u); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// toCommandMessage extracts a dispatchable command from one update.
// Non-command traffic (joins, edits, plain chatter) is dropped here.
func toCommandMessage(u tgbotapi.Update) (command.Message, bool) {
	m := u.Message
	if m == nil || m.From == nil || !m.IsCommand() {
		return command.Message{}, false
	}

	msg := command.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Command:   m.Command(),
		Args:      m.CommandArguments(),
		From: command.Identity{
			ID:     m.From.ID,
			Handle: m.From.UserName,
		},
	}
	if m.ReplyToMessage != nil && m.ReplyToMessage.From != nil {
		msg.ReplyTo = &command.Identity{
			ID:     m.ReplyToMessage.From.ID,
			Handle: m.ReplyToMessage.From.UserName,
		}
	}
	return msg, true
}

// Send replies to the inbound message. A rich rendering the transport
// rejects is retried once as plain text with identical content.
func (c *Client) Send(_ context.Context, to command.Message, reply command.Reply) error {
	msg := tgbotapi.NewMessage(to.ChatID, reply.Text)
	msg.ReplyToMessageID = to.MessageID
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}

	_, err := c.bot.Send(msg)
	if err == nil {
		return nil
	}
	if !reply.Markdown {
		return fmt.Errorf("send reply: %w", err)
	}

	c.logger.Warn("rich reply rejected, falling back to plain text",
		"chat_id", to.ChatID,
		"error", err,
	)
	fallback := tgbotapi.NewMessage(to.ChatID, reply.Plain)
	fallback.ReplyToMessageID = to.MessageID
	if _, err := c.bot.Send(fallback); err != nil {
		return fmt.Errorf("send plain fallback: %w", err)
	}
	return nil
}

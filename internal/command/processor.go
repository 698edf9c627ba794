package command

import (
	"context"
	"log/slog"
)

// Sender delivers a reply back through the transport. Implementations own
// the rich-text/plain fallback (a rejected rich rendering is retried with
// Reply.Plain).
type Sender interface {
	Send(ctx context.Context, to Message, reply Reply) error
}

// Processor joins the router to the transport's reply side. It is the unit
// of work the polling supervisor dispatches inbound messages to.
type Processor struct {
	router *Router
	sender Sender
	logger *slog.Logger
}

// NewProcessor builds a Processor.
func NewProcessor(router *Router, sender Sender, logger *slog.Logger) *Processor {
	return &Processor{router: router, sender: sender, logger: logger}
}

// HandleMessage routes one inbound message and sends its reply. Send
// failures are logged and dropped; the transport's own fault handling
// (supervisor backoff) covers systemic delivery problems.
func (p *Processor) HandleMessage(ctx context.Context, msg Message) {
	reply, handled := p.router.Handle(ctx, msg)
	if !handled {
		return
	}
	if err := p.sender.Send(ctx, msg, reply); err != nil {
		p.logger.ErrorContext(ctx, "send reply",
			"command", msg.Command,
			"chat_id", msg.ChatID,
			"error", err,
		)
	}
}

// Package command routes inbound chat commands to handlers. Handlers
// validate arguments, check authorization, perform one registry operation,
// and produce exactly one reply. Failures never escape: every handler error
// is translated into reply text by the error taxonomy, and panics are
// recovered into a generic failure reply.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"vouch/internal/authz"
	"vouch/internal/identity"
	"vouch/internal/platform/metrics"
	"vouch/internal/verification/models"
	dErrors "vouch/pkg/domain-errors"
)

// Verifier is the slice of the verification service the router consumes.
type Verifier interface {
	Check(ctx context.Context, rawIdentity string) (models.Record, error)
	Verify(ctx context.Context, rawIdentity, service, addedBy string) error
	Revoke(ctx context.Context, rawIdentity string) (bool, error)
}

const genericFailure = "An error occurred while handling the command. Please try again."

type handlerFunc func(ctx context.Context, msg Message) (Reply, error)

// Router dispatches commands by name. Stateless between messages; safe for
// concurrent Handle calls.
type Router struct {
	verifier Verifier
	authz    *authz.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	handlers map[string]handlerFunc
}

// NewRouter wires the command handlers.
func NewRouter(verifier Verifier, reg *authz.Registry, logger *slog.Logger, m *metrics.Metrics) *Router {
	r := &Router{
		verifier: verifier,
		authz:    reg,
		logger:   logger,
		metrics:  m,
	}
	r.handlers = map[string]handlerFunc{
		"check":  r.handleCheck,
		"add":    r.handleAdd,
		"remove": r.handleRemove,
		"auth":   r.handleAuth,
		"ping":   r.handlePing,
	}
	return r
}

// Handle dispatches msg to its handler and converts any failure into reply
// text. The second return is false for commands outside the bot's surface,
// which produce no reply.
func (r *Router) Handle(ctx context.Context, msg Message) (Reply, bool) {
	h, ok := r.handlers[msg.Command]
	if !ok {
		return Reply{}, false
	}

	reply, err := r.invoke(ctx, h, msg)
	if err == nil {
		r.metrics.ObserveCommand(msg.Command, "ok")
		return reply, true
	}

	code := dErrors.CodeOf(err)
	r.metrics.ObserveCommand(msg.Command, string(code))
	switch code {
	case dErrors.CodeUsage, dErrors.CodeUnauthorized:
		return plainReply(err.Error()), true
	default:
		r.logger.ErrorContext(ctx, "command handler failed",
			"command", msg.Command,
			"from_id", msg.From.ID,
			"error", err,
		)
		return plainReply(genericFailure), true
	}
}

// invoke runs a handler with panic isolation so nothing crosses into the
// receive loop.
func (r *Router) invoke(ctx context.Context, h handlerFunc, msg Message) (reply Reply, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = dErrors.Newf(dErrors.CodeInternal, "handler panic: %v", rec)
		}
	}()
	return h(ctx, msg)
}

func (r *Router) handleCheck(ctx context.Context, msg Message) (Reply, error) {
	target := firstField(msg.Args)
	if target == "" && msg.ReplyTo != nil && msg.ReplyTo.Handle != "" {
		target = msg.ReplyTo.Handle
	}
	if target == "" {
		return Reply{}, dErrors.New(dErrors.CodeUsage, "Usage: /check @username, or reply to a user's message with /check")
	}

	rec, err := r.verifier.Check(ctx, target)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return renderNotVerified(identity.Normalize(target)), nil
		}
		return Reply{}, err
	}
	return renderVerified(rec.Username, rec.Service), nil
}

func (r *Router) handleAdd(ctx context.Context, msg Message) (Reply, error) {
	if !r.authz.IsAuthorized(msg.From.ID) {
		return Reply{}, dErrors.New(dErrors.CodeUnauthorized, "You are not authorized to use this command.")
	}

	args := strings.TrimSpace(msg.Args)
	cut := strings.IndexAny(args, " \t")
	if args == "" || cut < 0 {
		return Reply{}, dErrors.New(dErrors.CodeUsage, "Usage: /add @username <service>")
	}
	target := args[:cut]
	// Service text is the remainder of the input and may contain spaces.
	service := strings.TrimSpace(args[cut:])
	if service == "" {
		return Reply{}, dErrors.New(dErrors.CodeUsage, "Usage: /add @username <service>")
	}

	if err := r.verifier.Verify(ctx, target, service, msg.From.Handle); err != nil {
		return Reply{}, err
	}
	key := identity.Normalize(target)
	return plainReply(fmt.Sprintf("%s has been added as verified for %s.", key, service)), nil
}

func (r *Router) handleRemove(ctx context.Context, msg Message) (Reply, error) {
	if !r.authz.IsAuthorized(msg.From.ID) {
		return Reply{}, dErrors.New(dErrors.CodeUnauthorized, "You are not authorized to use this command.")
	}

	fields := strings.Fields(msg.Args)
	if len(fields) != 1 {
		return Reply{}, dErrors.New(dErrors.CodeUsage, "Usage: /remove @username")
	}
	target := fields[0]
	key := identity.Normalize(target)

	// Existence is checked before deleting so absence gets an accurate
	// reply. A concurrent delete between the two steps only skews the
	// message, never the data.
	if _, err := r.verifier.Check(ctx, target); err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return plainReply(fmt.Sprintf("%s is not a verified user.", key)), nil
		}
		return Reply{}, err
	}
	if _, err := r.verifier.Revoke(ctx, target); err != nil {
		return Reply{}, err
	}
	return plainReply(fmt.Sprintf("%s has been removed from verified users.", key)), nil
}

func (r *Router) handleAuth(ctx context.Context, msg Message) (Reply, error) {
	// Granting authorization is never delegated, even to authorized users.
	if msg.From.ID != r.authz.Owner() {
		return Reply{}, dErrors.New(dErrors.CodeUnauthorized, "Only the owner can authorize users.")
	}

	fields := strings.Fields(msg.Args)
	if len(fields) != 1 {
		return Reply{}, dErrors.New(dErrors.CodeUsage, "Usage: /auth <numeric user id>")
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Reply{}, dErrors.Newf(dErrors.CodeUsage, "%q is not a numeric user id", fields[0])
	}

	r.authz.Authorize(id)
	return plainReply(fmt.Sprintf("%d has been authorized.", id)), nil
}

func (r *Router) handlePing(_ context.Context, _ Message) (Reply, error) {
	return plainReply("pong"), nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

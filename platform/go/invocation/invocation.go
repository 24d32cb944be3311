package invocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	ctxInfo contextKey = "ORGADMIN_INVOCATION"
)

// Info captures per-command metadata used to correlate host tool calls in the logs.
// TargetUsername is empty when the host tool's default org applies.
type Info struct {
	ID             uuid.UUID
	Command        string
	TargetUsername string
	StartedAt      time.Time
}

// New builds an Info for the given command path.
func New(command, targetUsername string, now time.Time) Info {
	return Info{
		ID:             uuid.New(),
		Command:        command,
		TargetUsername: targetUsername,
		StartedAt:      now,
	}
}

// Fields returns the zap fields identifying this invocation.
func (i Info) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("invocation_id", i.ID.String()),
		zap.String("command", i.Command),
	}
	if i.TargetUsername != "" {
		fields = append(fields, zap.String("target_username", i.TargetUsername))
	}
	return fields
}

// IntoContext stores the Info in the provided context.
func IntoContext(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxInfo, info)
}

// FromContext extracts the Info from context, returning false when not present.
func FromContext(ctx context.Context) (Info, bool) {
	if ctx == nil {
		return Info{}, false
	}
	v := ctx.Value(ctxInfo)
	if v == nil {
		return Info{}, false
	}

	info, ok := v.(Info)
	return info, ok
}

// FromContextOrNew returns the stored Info, or a fresh one for an unnamed command.
func FromContextOrNew(ctx context.Context) Info {
	if info, ok := FromContext(ctx); ok {
		return info
	}
	return New("", "", time.Now().UTC())
}

package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// LogFields are attached to every record logged with the context. Request
// middleware and the worker set them once, and nested calls narrow them.
type LogFields struct {
	RequestID  string
	UserID     *int64
	LeadID     *int64
	PropertyID *int64
	TeamID     *int64
	MessageID  *string // lead stream entry
	TaskType   *string
	Component  string
}

// WithLogFields merges fields into the context; set values win over the
// ones already present.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := GetLogFields(ctx)
	merged.RequestID = pickString(fields.RequestID, merged.RequestID)
	merged.UserID = pick(fields.UserID, merged.UserID)
	merged.LeadID = pick(fields.LeadID, merged.LeadID)
	merged.PropertyID = pick(fields.PropertyID, merged.PropertyID)
	merged.TeamID = pick(fields.TeamID, merged.TeamID)
	merged.MessageID = pick(fields.MessageID, merged.MessageID)
	merged.TaskType = pick(fields.TaskType, merged.TaskType)
	merged.Component = pickString(fields.Component, merged.Component)
	return context.WithValue(ctx, contextKey{}, merged)
}

func GetLogFields(ctx context.Context) LogFields {
	fields, _ := ctx.Value(contextKey{}).(LogFields)
	return fields
}

func (f LogFields) attrs() []slog.Attr {
	out := make([]slog.Attr, 0, 8)
	if f.RequestID != "" {
		out = append(out, slog.String("request_id", f.RequestID))
	}
	out = appendInt(out, "user_id", f.UserID)
	out = appendInt(out, "lead_id", f.LeadID)
	out = appendInt(out, "property_id", f.PropertyID)
	out = appendInt(out, "team_id", f.TeamID)
	if f.MessageID != nil {
		out = append(out, slog.String("message_id", *f.MessageID))
	}
	if f.TaskType != nil {
		out = append(out, slog.String("task_type", *f.TaskType))
	}
	if f.Component != "" {
		out = append(out, slog.String("component", f.Component))
	}
	return out
}

func appendInt(out []slog.Attr, key string, v *int64) []slog.Attr {
	if v == nil {
		return out
	}
	return append(out, slog.Int64(key, *v))
}

func pick[T any](next, prev *T) *T {
	if next != nil {
		return next
	}
	return prev
}

func pickString(next, prev string) string {
	if next != "" {
		return next
	}
	return prev
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

package text

import (
	"context"
	"log/slog"
)

// AccessHook observes accessor lookups. Hooks can read and annotate the
// AccessContext but never change what the lookup returns: edits to Key,
// Args, Result or Error are ignored.
type AccessHook interface {
	BeforeAccess(ctx *AccessContext)
	AfterAccess(ctx *AccessContext)
}

type AccessContext struct {
	Path     string
	Key      string
	Args     []any
	Result   Value
	Error    error
	Location Location
	Metadata map[string]any
}

func (ctx *AccessContext) ensureMetadata() {
	if ctx.Metadata == nil {
		ctx.Metadata = make(map[string]any)
	}
}

func (ctx *AccessContext) SetMetadata(key string, value any) {
	if ctx == nil || key == "" {
		return
	}
	ctx.ensureMetadata()
	ctx.Metadata[key] = value
}

func (ctx *AccessContext) MetadataValue(key string) (any, bool) {
	if ctx == nil || ctx.Metadata == nil {
		return nil, false
	}
	val, ok := ctx.Metadata[key]
	return val, ok
}

// FullKey returns the dotted path of the requested key
func (ctx *AccessContext) FullKey() string {
	if ctx == nil {
		return ""
	}
	return joinKey(ctx.Path, ctx.Key)
}

type AccessHookFuncs struct {
	Before func(ctx *AccessContext)
	After  func(ctx *AccessContext)
}

func (h AccessHookFuncs) BeforeAccess(ctx *AccessContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h AccessHookFuncs) AfterAccess(ctx *AccessContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

// LoggingHook reports failed lookups at warn level and successful ones at
// debug level. It never alters the result.
func LoggingHook(logger *slog.Logger) AccessHook {
	if logger == nil {
		logger = slog.Default()
	}
	return AccessHookFuncs{
		After: func(ctx *AccessContext) {
			attrs := []slog.Attr{
				slog.String("key", ctx.FullKey()),
				slog.String("location", ctx.Location.String()),
			}
			if ctx.Error != nil {
				attrs = append(attrs, slog.Any("error", ctx.Error))
				logger.LogAttrs(context.Background(), slog.LevelWarn, "i18n lookup failed", attrs...)
				return
			}
			attrs = append(attrs, slog.Bool("branch", ctx.Result.IsBranch()))
			logger.LogAttrs(context.Background(), slog.LevelDebug, "i18n lookup", attrs...)
		},
	}
}

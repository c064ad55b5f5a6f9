package utils

import (
	"context"
	"strings"

	"github.com/mmdatafocus/plant_inventory/appctx"
)

var (
	ContextKeyUserName      = appctx.ContextKeyUserName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

// UserNameOr returns the operator stored in ctx, or fallback when none was set.
func UserNameOr(ctx context.Context, fallback string) string {
	if ctx == nil {
		return fallback
	}
	if name, ok := GetUserNameFromContext(ctx); ok && strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}

package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
)

// Process exit codes. Usage errors exit 2 like most Unix tools.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitConfig  = 3
	ExitSource  = 4
	ExitInput   = 5
	ExitStorage = 6
)

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch TypeOf(err) {
	case ErrTypeValidation:
		return ExitUsage
	case ErrTypeConfig:
		return ExitConfig
	case ErrTypeSourceUnavailable:
		return ExitSource
	case ErrTypeParsing, ErrTypeColumnCount, ErrTypeSchema:
		return ExitInput
	case ErrTypeStorage:
		return ExitStorage
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return ExitSource
	}
	return ExitFailure
}

// LogAttrs flattens an error into slog attributes: the message, the AppError
// type and its context map
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}
	attrs := []any{slog.String("error", err.Error())}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return attrs
	}
	attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
	if len(appErr.Context) > 0 {
		ctx := make([]any, 0, len(appErr.Context))
		for k, v := range appErr.Context {
			ctx = append(ctx, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("error_context", ctx...))
	}
	return attrs
}

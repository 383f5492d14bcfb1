package composables

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/nordwind/backoffice/pkg/configuration"
	"github.com/nordwind/backoffice/pkg/constants"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// UsePaginated reads page/limit query parameters, clamped to the
// configured page size bounds.
func UsePaginated(r *http.Request) PaginationParams {
	conf := configuration.Use()

	limit := conf.PageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	return PaginationParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the
// standard logger when the middleware did not run.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, requestID)
}

func UseRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(constants.RequestIDKey).(string)
	return v, ok
}

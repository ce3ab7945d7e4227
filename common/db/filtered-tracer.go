package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// FilteredTracer forwards query traces to inner except for statements touching skipTable
type FilteredTracer struct {
	inner     pgx.QueryTracer
	skipTable string
}

// NewFilteredTracer wraps inner, skipping statements that mention skipTable
func NewFilteredTracer(inner pgx.QueryTracer, skipTable string) *FilteredTracer {
	return &FilteredTracer{
		inner:     inner,
		skipTable: strings.ToLower(skipTable),
	}
}

// skipCtxKey marks a query whose end trace must be skipped as well
type skipCtxKey struct{}

func (t *FilteredTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.skipTable != "" && strings.Contains(strings.ToLower(data.SQL), t.skipTable) {
		return context.WithValue(ctx, skipCtxKey{}, true)
	}

	return t.inner.TraceQueryStart(ctx, conn, data)
}

func (t *FilteredTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if ctx.Value(skipCtxKey{}) != nil {
		return
	}

	t.inner.TraceQueryEnd(ctx, conn, data)
}

package storage

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

func TestLogSink_SaveEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	p := domain.Product{ID: 7, Name: "Desk Lamp", Price: 25, Stock: 3}
	err := sink.SaveEvent(context.Background(), domain.NewProductEvent(domain.EventProductUpdated, p, time.Now()))

	require.NoError(t, err)
	require.Contains(t, buf.String(), `"product_id":7`)
	require.Contains(t, buf.String(), `"name":"Desk Lamp"`)
	require.Contains(t, buf.String(), string(domain.EventProductUpdated))
}

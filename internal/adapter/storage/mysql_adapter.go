package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS product_events (
	id          BIGINT AUTO_INCREMENT PRIMARY KEY,
	product_id  BIGINT       NOT NULL,
	event_type  VARCHAR(16)  NOT NULL,
	name        VARCHAR(255) NOT NULL,
	price       BIGINT       NOT NULL,
	stock       BIGINT       NOT NULL,
	occurred_at DATETIME(6)  NOT NULL,
	INDEX idx_product_events_product (product_id)
)`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create product_events: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) SaveEvent(ctx context.Context, event domain.ProductEvent) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO product_events (product_id, event_type, name, price, stock, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ProductID, string(event.Type), event.Name, event.Price, event.Stock,
		event.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert product event: %w", err)
	}
	return nil
}

// CountEvents returns how many audit rows exist for a product.
func (m *MySQLAdapter) CountEvents(ctx context.Context, productID int64) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_events WHERE product_id = ?`, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count product events: %w", err)
	}
	return n, nil
}

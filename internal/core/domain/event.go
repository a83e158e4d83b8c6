package domain

import "time"

type EventType string

const (
	EventProductCreated EventType = "created"
	EventProductUpdated EventType = "updated"
	EventProductDeleted EventType = "deleted"
)

type ProductEvent struct {
	Type       EventType
	ProductID  int64
	Name       string
	Price      int64
	Stock      int64
	OccurredAt time.Time
}

func NewProductEvent(t EventType, p Product, at time.Time) ProductEvent {
	return ProductEvent{
		Type:       t,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		OccurredAt: at,
	}
}

package domain

import "time"

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64 // smallest currency unit
	Category    string
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPage is one page of a filtered, id-ordered listing. TotalCount
// counts the whole filtered set, not just Products.
type ProductPage struct {
	Products   []Product
	TotalCount int
}

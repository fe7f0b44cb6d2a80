package model

import "time"

// ItemSales aggregates quantity sold for one line-item name.
type ItemSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// SalesSummary is the dashboard view over a date range.
type SalesSummary struct {
	From         time.Time   `json:"from"`
	To           time.Time   `json:"to"`
	OrderCount   int         `json:"orderCount"`
	GrossSales   float64     `json:"grossSales"`
	TaxCollected float64     `json:"taxCollected"`
	ExpenseTotal float64     `json:"expenseTotal"`
	TopItems     []ItemSales `json:"topItems"`
}

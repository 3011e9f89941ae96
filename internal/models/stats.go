package models

// OrderStats is the dashboard aggregate for one shop. Revenue sums the
// totals of confirmed and delivered orders only.
type OrderStats struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	Confirmed    int64   `json:"confirmed"`
	Delivered    int64   `json:"delivered"`
	Cancelled    int64   `json:"cancelled"`
	TotalRevenue float64 `json:"totalRevenue"`
}

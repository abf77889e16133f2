package client

import "time"

// User is the account shape returned by the API.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Attachment is a file reference on a transaction.
type Attachment struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID                string       `json:"id"`
	Type              string       `json:"type"`
	Amount            float64      `json:"amount"`
	Category          string       `json:"category"`
	Description       string       `json:"description,omitempty"`
	Date              time.Time    `json:"date"`
	Tags              []string     `json:"tags,omitempty"`
	Recurring         bool         `json:"recurring"`
	RecurringInterval string       `json:"recurringInterval,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// CreateTransaction is the payload for recording a transaction. Date uses
// YYYY-MM-DD or RFC 3339; empty means "now".
type CreateTransaction struct {
	Type              string       `json:"type"`
	Amount            float64      `json:"amount"`
	Category          string       `json:"category"`
	Description       string       `json:"description,omitempty"`
	Date              string       `json:"date,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	Recurring         bool         `json:"recurring,omitempty"`
	RecurringInterval string       `json:"recurringInterval,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
}

// ListOptions are the query parameters for listing transactions. Zero values
// are omitted.
type ListOptions struct {
	Page      int
	Limit     int
	Type      string
	Category  string
	StartDate string
	EndDate   string
	MinAmount float64
	MaxAmount float64
	Search    string
	SortBy    string
	SortOrder string
}

// Pagination describes the page returned by List.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// TransactionPage is one page of transactions.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// StatsSummary is the aggregate roll-up for a period.
type StatsSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetAmount     float64 `json:"netAmount"`
	Count         int64   `json:"count"`
	AvgAmount     float64 `json:"avgAmount"`
	MinAmount     float64 `json:"minAmount"`
	MaxAmount     float64 `json:"maxAmount"`
}

// CategoryStat is one row of the category breakdown.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
	Avg      float64 `json:"avg"`
}

// MonthlyStat is one point of the trailing monthly series.
type MonthlyStat struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// Stats bundles the statistics for a period.
type Stats struct {
	Period     string         `json:"period"`
	Summary    StatsSummary   `json:"summary"`
	Categories []CategoryStat `json:"categories"`
	Monthly    []MonthlyStat  `json:"monthly"`
}

package ports

import (
	"context"
	"time"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// AttachmentInput describes one uploaded file reference.
type AttachmentInput struct {
	Filename string
	Type     string
	Size     int64
	URL      string
}

// CreateTransactionInput carries all data needed to record a transaction.
type CreateTransactionInput struct {
	UserID            string
	Type              string
	Amount            float64
	Category          string
	Description       string
	Date              time.Time // zero value defaults to now
	Tags              []string
	Recurring         bool
	RecurringInterval string
	Attachments       []AttachmentInput
}

// UpdateTransactionInput is a partial update; nil fields are untouched.
type UpdateTransactionInput struct {
	Type              *string
	Amount            *float64
	Category          *string
	Description       *string
	Date              *time.Time
	Tags              *[]string
	Recurring         *bool
	RecurringInterval *string
	Attachments       *[]AttachmentInput
}

// ListTransactionsInput carries all parameters for the list endpoint.
type ListTransactionsInput struct {
	UserID    string
	Page      int
	Limit     int
	Type      string
	Category  string
	DateFrom  time.Time
	DateTo    time.Time
	MinAmount float64
	MaxAmount float64
	Search    string
	SortBy    string
	SortOrder string // "asc" or "desc", defaults to "desc"
}

// ListTransactionsResult is returned by List.
type ListTransactionsResult struct {
	Items      []*domain.Transaction
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// StatsPeriod selects the aggregation window, anchored at the current instant.
type StatsPeriod string

const (
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
	PeriodAll   StatsPeriod = "all"
)

// TransactionStats bundles the summary, category breakdown, and monthly
// series for a stats request.
type TransactionStats struct {
	Period     StatsPeriod
	Summary    StatsSummary
	Categories []CategoryStat
	Monthly    []MonthlyStat
}

// BulkDeleteResult reports how many of the requested ids were removed.
type BulkDeleteResult struct {
	DeletedCount int64
}

// TransactionService defines transaction use-cases.
type TransactionService interface {
	Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, id, userID string) (*domain.Transaction, error)
	Update(ctx context.Context, id, userID string, input UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
	BulkDelete(ctx context.Context, userID string, ids []string) (*BulkDeleteResult, error)
	List(ctx context.Context, input ListTransactionsInput) (*ListTransactionsResult, error)
	Stats(ctx context.Context, userID string, period StatsPeriod) (*TransactionStats, error)
	Categories(ctx context.Context, userID string) ([]string, error)
}

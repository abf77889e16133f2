package ports

import (
	"context"
	"time"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// ListTransactionsFilter carries all query parameters for listing
// transactions. UserID is always enforced by the service layer.
type ListTransactionsFilter struct {
	UserID    string
	Type      string    // optional: "income" or "expense"
	Category  string    // optional: case-insensitive substring match
	DateFrom  time.Time // optional: date >= DateFrom
	DateTo    time.Time // optional: date <= DateTo
	MinAmount float64   // optional when > 0
	MaxAmount float64   // optional when > 0
	Search    string    // optional: matched against description, category, and tags
	SortBy    string    // field name, defaults to "date"
	SortDesc  bool
	Page      int // 1-based
	Limit     int // rows per page (capped at 100 by service)
}

// StatsSummary is the aggregate roll-up for a time window.
type StatsSummary struct {
	TotalIncome   float64
	TotalExpenses float64
	NetAmount     float64
	Count         int64
	AvgAmount     float64
	MinAmount     float64
	MaxAmount     float64
}

// CategoryStat is one row of the per-category breakdown.
type CategoryStat struct {
	Category string
	Total    float64
	Count    int64
	Avg      float64
}

// MonthlyStat is one point of the trailing income/expense series.
type MonthlyStat struct {
	Year     int
	Month    int
	Income   float64
	Expenses float64
}

// UpdateTransactionFields holds a partial update; nil fields are left
// untouched.
type UpdateTransactionFields struct {
	Type              *domain.TransactionType
	Amount            *float64
	Category          *string
	Description       *string
	Date              *time.Time
	Tags              *[]string
	Recurring         *bool
	RecurringInterval *domain.RecurringInterval
	Attachments       *[]domain.Attachment
}

// TransactionRepository defines persistence operations for transactions.
// Every read and write is scoped by the owning user id; a transaction owned
// by someone else is indistinguishable from one that does not exist.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id, userID string) (*domain.Transaction, error)
	Update(ctx context.Context, id, userID string, fields UpdateTransactionFields) (*domain.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
	// DeleteMany removes the caller's transactions among ids and returns the
	// number actually deleted.
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
	// List returns a page of transactions matching filter and the total count.
	List(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, int64, error)
	// Summary aggregates income/expense totals for the user between from and
	// now. A zero from means no lower bound.
	Summary(ctx context.Context, userID string, from time.Time) (*StatsSummary, error)
	// CategoryBreakdown returns the top categories by total amount for the
	// window, at most limit rows.
	CategoryBreakdown(ctx context.Context, userID string, from time.Time, limit int) ([]CategoryStat, error)
	// MonthlyTrend returns per-month income/expense sums for dates >= from.
	MonthlyTrend(ctx context.Context, userID string, from time.Time) ([]MonthlyStat, error)
	// Categories returns the distinct categories used by the user.
	Categories(ctx context.Context, userID string) ([]string, error)
}

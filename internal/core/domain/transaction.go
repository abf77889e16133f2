package domain

import "time"

// TransactionType distinguishes money coming in from money going out.
// It drives sign conventions in every aggregate: net = income - expenses.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// RecurringInterval is how often a recurring transaction repeats.
type RecurringInterval string

const (
	IntervalDaily   RecurringInterval = "daily"
	IntervalWeekly  RecurringInterval = "weekly"
	IntervalMonthly RecurringInterval = "monthly"
	IntervalYearly  RecurringInterval = "yearly"
)

// Valid reports whether r is one of the known intervals.
func (r RecurringInterval) Valid() bool {
	switch r {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// Attachment is a file reference stored alongside a transaction.
type Attachment struct {
	Filename string `json:"filename" bson:"filename"`
	Type     string `json:"type" bson:"type"`
	Size     int64  `json:"size" bson:"size"`
	URL      string `json:"url" bson:"url"`
}

// Transaction is a single income or expense record. Every transaction belongs
// to exactly one user and is only ever visible to that user.
type Transaction struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	UserID            string            `json:"user_id" bson:"user_id"`
	Type              TransactionType   `json:"type" bson:"type"`
	Amount            float64           `json:"amount" bson:"amount"`
	Category          string            `json:"category" bson:"category"`
	Description       string            `json:"description,omitempty" bson:"description,omitempty"`
	Date              time.Time         `json:"date" bson:"date"`
	Tags              []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Recurring         bool              `json:"recurring" bson:"recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval,omitempty" bson:"recurring_interval,omitempty"`
	Attachments       []Attachment      `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/MattStellino/TrackIt/internal/core/domain"
	"github.com/MattStellino/TrackIt/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	topCategories    = 10
	trailingMonths   = 12
	defaultSortField = "date"
)

// sortableFields whitelists the fields exposed for sorting. Anything else
// falls back to the default.
var sortableFields = map[string]bool{
	"date":       true,
	"amount":     true,
	"category":   true,
	"type":       true,
	"created_at": true,
}

// TransactionService implements transaction CRUD and the query/aggregation
// use-cases.
type TransactionService struct {
	repo ports.TransactionRepository
	log  zerolog.Logger
	// now is swappable so window boundaries are testable.
	now func() time.Time
}

func NewTransactionService(repo ports.TransactionRepository, log zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, log: log, now: time.Now}
}

func (s *TransactionService) Create(ctx context.Context, input ports.CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateTransactionInput(input.Type, input.Amount, input.Category, input.RecurringInterval); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	t := &domain.Transaction{
		UserID:            input.UserID,
		Type:              domain.TransactionType(input.Type),
		Amount:            input.Amount,
		Category:          input.Category,
		Description:       input.Description,
		Date:              date.UTC(),
		Tags:              input.Tags,
		Recurring:         input.Recurring,
		RecurringInterval: domain.RecurringInterval(input.RecurringInterval),
		Attachments:       toAttachments(input.Attachments),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create transaction")
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", created.ID).
		Str("user_id", created.UserID).
		Str("type", string(created.Type)).
		Msg("transaction created")
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *TransactionService) Update(ctx context.Context, id, userID string, input ports.UpdateTransactionInput) (*domain.Transaction, error) {
	fields := ports.UpdateTransactionFields{
		Description: input.Description,
		Date:        input.Date,
		Tags:        input.Tags,
		Recurring:   input.Recurring,
	}
	if input.Type != nil {
		typ := domain.TransactionType(*input.Type)
		if !typ.Valid() {
			return nil, domain.NewValidationError("type must be income or expense")
		}
		fields.Type = &typ
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, domain.NewValidationError("amount must be greater than zero")
		}
		fields.Amount = input.Amount
	}
	if input.Category != nil {
		if *input.Category == "" {
			return nil, domain.NewValidationError("category cannot be empty")
		}
		fields.Category = input.Category
	}
	if input.RecurringInterval != nil {
		interval := domain.RecurringInterval(*input.RecurringInterval)
		// Empty clears the interval on a non-recurring transaction.
		if interval != "" && !interval.Valid() {
			return nil, domain.NewValidationError("recurringInterval must be one of: daily, weekly, monthly, yearly")
		}
		fields.RecurringInterval = &interval
	}
	if input.Attachments != nil {
		atts := toAttachments(*input.Attachments)
		fields.Attachments = &atts
	}

	updated, err := s.repo.Update(ctx, id, userID, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("transaction_id", id).Str("user_id", userID).Msg("transaction updated")
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.log.Info().Str("transaction_id", id).Str("user_id", userID).Msg("transaction deleted")
	return nil
}

func (s *TransactionService) BulkDelete(ctx context.Context, userID string, ids []string) (*ports.BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids must be a non-empty list")
	}

	count, err := s.repo.DeleteMany(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Int("requested", len(ids)).
		Int64("deleted", count).
		Msg("bulk delete")
	return &ports.BulkDeleteResult{DeletedCount: count}, nil
}

func (s *TransactionService) List(ctx context.Context, input ports.ListTransactionsInput) (*ports.ListTransactionsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if input.Type != "" && !domain.TransactionType(input.Type).Valid() {
		return nil, domain.NewValidationError("type must be income or expense")
	}

	sortBy := input.SortBy
	if !sortableFields[sortBy] {
		sortBy = defaultSortField
	}

	filter := ports.ListTransactionsFilter{
		UserID:    input.UserID,
		Type:      input.Type,
		Category:  input.Category,
		DateFrom:  input.DateFrom,
		DateTo:    input.DateTo,
		MinAmount: input.MinAmount,
		MaxAmount: input.MaxAmount,
		Search:    input.Search,
		SortBy:    sortBy,
		SortDesc:  input.SortOrder != "asc",
		Page:      page,
		Limit:     limit,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to list transactions")
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListTransactionsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}, nil
}

func (s *TransactionService) Stats(ctx context.Context, userID string, period ports.StatsPeriod) (*ports.TransactionStats, error) {
	now := s.now().UTC()
	from, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.Summary(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		// Empty window: zeroed statistics, not an error.
		summary = &ports.StatsSummary{}
	}
	summary.NetAmount = summary.TotalIncome - summary.TotalExpenses

	categories, err := s.repo.CategoryBreakdown(ctx, userID, from, topCategories)
	if err != nil {
		return nil, err
	}

	// The monthly series is always the trailing 12 calendar months,
	// independent of the requested period.
	trendFrom := startOfMonth(now).AddDate(0, -(trailingMonths - 1), 0)
	monthly, err := s.repo.MonthlyTrend(ctx, userID, trendFrom)
	if err != nil {
		return nil, err
	}

	return &ports.TransactionStats{
		Period:     period,
		Summary:    *summary,
		Categories: categories,
		Monthly:    monthly,
	}, nil
}

func (s *TransactionService) Categories(ctx context.Context, userID string) ([]string, error) {
	return s.repo.Categories(ctx, userID)
}

// periodStart maps a stats period to its window lower bound. Boundaries are
// calendar-aligned: "week" starts on Monday, "month" on the 1st, "year" on
// January 1st. "all" has no lower bound (zero time).
func periodStart(period ports.StatsPeriod, now time.Time) (time.Time, error) {
	switch period {
	case ports.PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	case ports.PeriodWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset), nil
	case ports.PeriodMonth:
		return startOfMonth(now), nil
	case ports.PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	case ports.PeriodAll, "":
		return time.Time{}, nil
	default:
		return time.Time{}, domain.NewValidationError("period must be one of: today, week, month, year, all")
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func validateTransactionInput(typ string, amount float64, category, interval string) error {
	var msgs []string
	if !domain.TransactionType(typ).Valid() {
		msgs = append(msgs, "type must be income or expense")
	}
	if amount <= 0 {
		msgs = append(msgs, "amount must be greater than zero")
	}
	if category == "" {
		msgs = append(msgs, "category is required")
	}
	if interval != "" && !domain.RecurringInterval(interval).Valid() {
		msgs = append(msgs, "recurringInterval must be one of: daily, weekly, monthly, yearly")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

func toAttachments(in []ports.AttachmentInput) []domain.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Attachment, len(in))
	for i, a := range in {
		out[i] = domain.Attachment{
			Filename: a.Filename,
			Type:     a.Type,
			Size:     a.Size,
			URL:      a.URL,
		}
	}
	return out
}

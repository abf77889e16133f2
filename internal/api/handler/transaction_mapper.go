package handler

import (
	"fmt"
	"time"

	"github.com/MattStellino/TrackIt/internal/core/domain"
	"github.com/MattStellino/TrackIt/internal/core/ports"
)

// dateFormats accepted on request bodies and query strings, tried in order.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// --- Request → Service input ---

func toCreateInput(req createTransactionRequest, userID string) (ports.CreateTransactionInput, error) {
	in := ports.CreateTransactionInput{
		UserID:            userID,
		Type:              req.Type,
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		Tags:              req.Tags,
		Recurring:         req.Recurring,
		RecurringInterval: req.RecurringInterval,
		Attachments:       toAttachmentInputs(req.Attachments),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return in, domain.NewValidationError("date must be YYYY-MM-DD or RFC 3339")
		}
		in.Date = date
	}
	return in, nil
}

func toUpdateInput(req updateTransactionRequest) (ports.UpdateTransactionInput, error) {
	in := ports.UpdateTransactionInput{
		Type:              req.Type,
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		Tags:              req.Tags,
		Recurring:         req.Recurring,
		RecurringInterval: req.RecurringInterval,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return in, domain.NewValidationError("date must be YYYY-MM-DD or RFC 3339")
		}
		in.Date = &date
	}
	if req.Attachments != nil {
		atts := toAttachmentInputs(*req.Attachments)
		in.Attachments = &atts
	}
	return in, nil
}

func toListInput(q listTransactionsQuery, userID string) (ports.ListTransactionsInput, error) {
	in := ports.ListTransactionsInput{
		UserID:    userID,
		Page:      q.Page,
		Limit:     q.Limit,
		Type:      q.Type,
		Category:  q.Category,
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
	if q.StartDate != "" {
		from, err := parseDate(q.StartDate)
		if err != nil {
			return in, domain.NewValidationError("startDate must be YYYY-MM-DD or RFC 3339")
		}
		in.DateFrom = from
	}
	if q.EndDate != "" {
		to, err := parseDate(q.EndDate)
		if err != nil {
			return in, domain.NewValidationError("endDate must be YYYY-MM-DD or RFC 3339")
		}
		in.DateTo = to
	}
	return in, nil
}

func toAttachmentInputs(reqs []attachmentRequest) []ports.AttachmentInput {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]ports.AttachmentInput, len(reqs))
	for i, a := range reqs {
		out[i] = ports.AttachmentInput{
			Filename: a.Filename,
			Type:     a.Type,
			Size:     a.Size,
			URL:      a.URL,
		}
	}
	return out
}

// --- Domain → HTTP response ---

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:                t.ID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		Category:          t.Category,
		Description:       t.Description,
		Date:              t.Date.UTC(),
		Tags:              t.Tags,
		Recurring:         t.Recurring,
		RecurringInterval: string(t.RecurringInterval),
		CreatedAt:         t.CreatedAt.UTC(),
		UpdatedAt:         t.UpdatedAt.UTC(),
	}
	if len(t.Attachments) > 0 {
		resp.Attachments = make([]attachmentResponse, len(t.Attachments))
		for i, a := range t.Attachments {
			resp.Attachments[i] = attachmentResponse{
				Filename: a.Filename,
				Type:     a.Type,
				Size:     a.Size,
				URL:      a.URL,
			}
		}
	}
	return resp
}

func toListResponse(r *ports.ListTransactionsResult) listTransactionsResponse {
	items := make([]transactionResponse, len(r.Items))
	for i, t := range r.Items {
		items[i] = toTransactionResponse(t)
	}
	return listTransactionsResponse{
		Success:      true,
		Transactions: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
			HasNext:    r.HasNext,
			HasPrev:    r.HasPrev,
		},
	}
}

func toStatsResponse(s *ports.TransactionStats) statsResponse {
	categories := make([]categoryStatResponse, len(s.Categories))
	for i, cs := range s.Categories {
		categories[i] = categoryStatResponse{
			Category: cs.Category,
			Total:    cs.Total,
			Count:    cs.Count,
			Avg:      cs.Avg,
		}
	}
	monthly := make([]monthlyStatResponse, len(s.Monthly))
	for i, ms := range s.Monthly {
		monthly[i] = monthlyStatResponse{
			Year:     ms.Year,
			Month:    ms.Month,
			Income:   ms.Income,
			Expenses: ms.Expenses,
		}
	}
	return statsResponse{
		Success: true,
		Period:  string(s.Period),
		Summary: statsSummaryResponse{
			TotalIncome:   s.Summary.TotalIncome,
			TotalExpenses: s.Summary.TotalExpenses,
			NetAmount:     s.Summary.NetAmount,
			Count:         s.Summary.Count,
			AvgAmount:     s.Summary.AvgAmount,
			MinAmount:     s.Summary.MinAmount,
			MaxAmount:     s.Summary.MaxAmount,
		},
		Categories: categories,
		Monthly:    monthly,
	}
}

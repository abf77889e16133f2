package handler

import "time"

// --- Request types ---

type attachmentRequest struct {
	Filename string `json:"filename" validate:"required"`
	Type     string `json:"type"     validate:"required"`
	Size     int64  `json:"size"     validate:"gte=0"`
	URL      string `json:"url"      validate:"required"`
}

type createTransactionRequest struct {
	Type              string              `json:"type"              validate:"required,oneof=income expense"`
	Amount            float64             `json:"amount"            validate:"required,gt=0"`
	Category          string              `json:"category"          validate:"required,max=50"`
	Description       string              `json:"description"       validate:"max=200"`
	Date              string              `json:"date"              validate:"omitempty"`
	Tags              []string            `json:"tags"              validate:"dive,max=20"`
	Recurring         bool                `json:"recurring"`
	RecurringInterval string              `json:"recurringInterval" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Attachments       []attachmentRequest `json:"attachments"       validate:"dive"`
}

// updateTransactionRequest is a partial update: absent fields stay untouched.
type updateTransactionRequest struct {
	Type              *string              `json:"type"              validate:"omitempty,oneof=income expense"`
	Amount            *float64             `json:"amount"            validate:"omitempty,gt=0"`
	Category          *string              `json:"category"          validate:"omitempty,max=50"`
	Description       *string              `json:"description"       validate:"omitempty,max=200"`
	Date              *string              `json:"date"`
	Tags              *[]string            `json:"tags"              validate:"omitempty,dive,max=20"`
	Recurring         *bool                `json:"recurring"`
	RecurringInterval *string              `json:"recurringInterval" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Attachments       *[]attachmentRequest `json:"attachments"       validate:"omitempty,dive"`
}

type listTransactionsQuery struct {
	Page      int     `query:"page"`
	Limit     int     `query:"limit"`
	Type      string  `query:"type"`
	Category  string  `query:"category"`
	StartDate string  `query:"startDate"`
	EndDate   string  `query:"endDate"`
	MinAmount float64 `query:"minAmount"`
	MaxAmount float64 `query:"maxAmount"`
	Search    string  `query:"search"`
	SortBy    string  `query:"sortBy"`
	SortOrder string  `query:"sortOrder"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// --- Response types ---

type attachmentResponse struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

type transactionResponse struct {
	ID                string               `json:"id"`
	Type              string               `json:"type"`
	Amount            float64              `json:"amount"`
	Category          string               `json:"category"`
	Description       string               `json:"description,omitempty"`
	Date              time.Time            `json:"date"`
	Tags              []string             `json:"tags,omitempty"`
	Recurring         bool                 `json:"recurring"`
	RecurringInterval string               `json:"recurringInterval,omitempty"`
	Attachments       []attachmentResponse `json:"attachments,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

type singleTransactionResponse struct {
	Success     bool                `json:"success"`
	Transaction transactionResponse `json:"transaction"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type listTransactionsResponse struct {
	Success      bool                  `json:"success"`
	Transactions []transactionResponse `json:"transactions"`
	Pagination   paginationResponse    `json:"pagination"`
}

type statsSummaryResponse struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetAmount     float64 `json:"netAmount"`
	Count         int64   `json:"count"`
	AvgAmount     float64 `json:"avgAmount"`
	MinAmount     float64 `json:"minAmount"`
	MaxAmount     float64 `json:"maxAmount"`
}

type categoryStatResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
	Avg      float64 `json:"avg"`
}

type monthlyStatResponse struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type statsResponse struct {
	Success    bool                   `json:"success"`
	Period     string                 `json:"period"`
	Summary    statsSummaryResponse   `json:"summary"`
	Categories []categoryStatResponse `json:"categories"`
	Monthly    []monthlyStatResponse  `json:"monthly"`
}

type categoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}

type bulkDeleteResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

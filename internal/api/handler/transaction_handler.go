package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MattStellino/TrackIt/internal/api/metrics"
	"github.com/MattStellino/TrackIt/internal/core/ports"
)

// TransactionHandler handles HTTP requests for transaction operations.
// Every operation is scoped to the authenticated user.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateInput(req, userID)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.TransactionsCreatedTotal.WithLabelValues(string(created.Type)).Inc()

	return c.JSON(http.StatusCreated, singleTransactionResponse{
		Success:     true,
		Transaction: toTransactionResponse(created),
	})
}

// List handles GET /api/transactions.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var q listTransactionsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	input, err := toListInput(q, userID)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /api/transactions/:id.
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	t, err := h.service.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, singleTransactionResponse{
		Success:     true,
		Transaction: toTransactionResponse(t),
	})
}

// Update handles PUT /api/transactions/:id.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toUpdateInput(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, singleTransactionResponse{
		Success:     true,
		Transaction: toTransactionResponse(updated),
	})
}

// Delete handles DELETE /api/transactions/:id.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	metrics.TransactionsDeletedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "transaction deleted"})
}

// BulkDelete handles DELETE /api/transactions/bulk.
func (h *TransactionHandler) BulkDelete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.BulkDelete(c.Request().Context(), userID, req.IDs)
	if err != nil {
		return err
	}
	metrics.TransactionsDeletedTotal.Add(float64(result.DeletedCount))

	return c.JSON(http.StatusOK, bulkDeleteResponse{
		Success:      true,
		DeletedCount: result.DeletedCount,
	})
}

// Stats handles GET /api/transactions/stats?period=.
func (h *TransactionHandler) Stats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	period := ports.StatsPeriod(c.QueryParam("period"))
	if period == "" {
		period = ports.PeriodMonth
	}

	start := time.Now()
	stats, err := h.service.Stats(c.Request().Context(), userID, period)
	if err != nil {
		return err
	}
	metrics.StatsRequestDuration.WithLabelValues(string(period)).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Categories handles GET /api/transactions/categories.
func (h *TransactionHandler) Categories(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	categories, err := h.service.Categories(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

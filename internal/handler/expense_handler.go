package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"spendtrack/internal/auth"
	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
	"spendtrack/internal/service"
)

const dateLayout = "2006-01-02"

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseCreateRequest represents an expense creation request.
type ExpenseCreateRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	CategoryID  uint            `json:"category_id" validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,max=500"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Notes       string          `json:"notes"`
}

// ExpenseUpdateRequest represents a partial expense update. Absent fields are
// left unchanged.
type ExpenseUpdateRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,gt=0"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Date        *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string          `json:"notes"`
}

// Create godoc
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseCreateRequest true "Expense data"
// @Success 201 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	var req ExpenseCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, _ := time.Parse(dateLayout, req.Date) // format enforced by validator

	expense, err := h.expenseService.Create(c.Request().Context(), user.ID, &model.Expense{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, expense)
}

// List godoc
// @Summary List the caller's expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Records to skip"
// @Param limit query int false "Maximum records to return (1-500)"
// @Param category_id query int false "Filter by category"
// @Param start_date query string false "Expenses from this date (YYYY-MM-DD)"
// @Param end_date query string false "Expenses until this date (YYYY-MM-DD)"
// @Param min_amount query number false "Minimum amount"
// @Param max_amount query number false "Maximum amount"
// @Success 200 {array} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, expenses)
}

// Get godoc
// @Summary Get one of the caller's expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, expense)
}

// Update godoc
// @Summary Update one of the caller's expenses
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body ExpenseUpdateRequest true "Fields to update"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req ExpenseUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := service.ExpenseUpdate{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		date, _ := time.Parse(dateLayout, *req.Date) // format enforced by validator
		update.Date = &date
	}

	expense, err := h.expenseService.Update(c.Request().Context(), user.ID, id, update)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete one of the caller's expenses
// @Tags expenses
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.expenseService.Delete(c.Request().Context(), user.ID, id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

func parseExpenseFilter(c echo.Context) (repository.ExpenseFilter, error) {
	filter := repository.ExpenseFilter{Limit: defaultListLimit}

	badQuery := func(name string) error {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid query parameter: " + name,
			Code:  "INVALID_QUERY",
		})
	}

	if v := c.QueryParam("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return filter, badQuery("skip")
		}
		filter.Skip = skip
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxListLimit {
			return filter, badQuery("limit")
		}
		filter.Limit = limit
	}
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, badQuery("category_id")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.QueryParam("start_date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, badQuery("start_date")
		}
		filter.StartDate = &date
	}
	if v := c.QueryParam("end_date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, badQuery("end_date")
		}
		filter.EndDate = &date
	}
	if v := c.QueryParam("min_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil || amount.IsNegative() {
			return filter, badQuery("min_amount")
		}
		filter.MinAmount = &amount
	}
	if v := c.QueryParam("max_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil || amount.IsNegative() {
			return filter, badQuery("max_amount")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/codenzaar/loan-tracker/internal/config"
	"github.com/codenzaar/loan-tracker/internal/domain"
	"github.com/codenzaar/loan-tracker/internal/report"
	"github.com/codenzaar/loan-tracker/internal/service"
	apperrors "github.com/codenzaar/loan-tracker/pkg/errors"
	"github.com/codenzaar/loan-tracker/pkg/response"
	"github.com/codenzaar/loan-tracker/pkg/utils"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
	cfg       *config.Config
}

func NewLoanHandler(svc *service.LoanService, cfg *config.Config) *LoanHandler {
	v := validator.New()
	registerDecimalRules(v)

	return &LoanHandler{
		service:   svc,
		validator: v,
		cfg:       cfg,
	}
}

// registerDecimalRules adds decimal_gt / decimal_gte validators for
// decimal.Decimal DTO fields.
func registerDecimalRules(v *validator.Validate) {
	compare := func(fl validator.FieldLevel, allowEqual bool) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		if allowEqual {
			return value.GreaterThanOrEqual(bound)
		}
		return value.GreaterThan(bound)
	}

	_ = v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		return compare(fl, false)
	})
	_ = v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		return compare(fl, true)
	})
}

// List returns loans matching the optional customerName, status,
// startDate and endDate query parameters.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.LoanFilter{
		CustomerName: query.Get("customerName"),
		Status:       query.Get("status"),
	}

	if raw := query.Get("startDate"); raw != "" {
		start, err := utils.ParseDate(raw)
		if err != nil {
			h.respondError(w, apperrors.NewValidationError("Invalid start date format"))
			return
		}
		filter.StartDate = &start
	}
	if raw := query.Get("endDate"); raw != "" {
		end, err := utils.ParseDate(raw)
		if err != nil {
			h.respondError(w, apperrors.NewValidationError("Invalid end date format"))
			return
		}
		filter.EndDate = &end
	}

	loans, err := h.service.GetLoans(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.SuccessList(w, len(loans), loans)
}

// Get returns a single loan by id.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := loanID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	loan, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// Create validates and persists a new loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validate(&request); err != nil {
		h.respondError(w, err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	log.Printf("loan created: %s for customer %s", loan.ID, loan.CustomerName)
	response.Created(w, loan)
}

// Update applies a partial update to a loan.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := loanID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var request domain.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	loan, err := h.service.UpdateLoan(r.Context(), id, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// Delete removes a loan permanently.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := loanID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.service.DeleteLoan(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, struct{}{})
}

// AddPayment records a payment against a loan.
func (h *LoanHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := loanID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var request domain.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validate(&request); err != nil {
		h.respondError(w, err)
		return
	}

	loan, err := h.service.AddPayment(r.Context(), id, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// DeletePayment removes a payment from a loan. A payment id that matches
// nothing, including a malformed one, is a no-op on an existing loan.
func (h *LoanHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := loanID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		paymentID = uuid.Nil
	}

	loan, err := h.service.DeletePayment(r.Context(), id, paymentID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// DateRange returns loans within a required start/end window, optionally
// narrowed by customer name.
func (h *LoanHandler) DateRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	loans, err := h.service.GetLoansByDateRange(r.Context(),
		query.Get("startDate"), query.Get("endDate"), query.Get("customerName"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.SuccessList(w, len(loans), loans)
}

// GeneratePDF streams a receipt (loanId given) or an aggregate report
// (filter parameters) as a PDF attachment.
func (h *LoanHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	data, err := h.service.BuildReport(r.Context(), &service.ReportRequest{
		LoanID:       query.Get("loanId"),
		CustomerName: query.Get("customerName"),
		StartDate:    query.Get("startDate"),
		EndDate:      query.Get("endDate"),
		FilterType:   query.Get("filterType"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", data.Filename))

	writer := report.NewPDFWriter(w)
	if data.Receipt != nil {
		report.RenderReceipt(writer, data.Receipt)
	} else {
		report.RenderReport(writer, data.Loans, report.Meta{
			GeneratedAt: data.GeneratedAt,
			Filters:     data.Filters,
		})
	}

	// Headers are already on the wire; a failure here is fatal to the
	// response and can only be logged.
	if err := writer.Close(); err != nil {
		log.Printf("report rendering failed: %v", err)
	}
}

func loanID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("Invalid loan id")
	}
	return id, nil
}

func (h *LoanHandler) validate(request interface{}) error {
	err := h.validator.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, validationMessage(fe))
	}
	return apperrors.NewValidationError(messages...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "CustomerName":
		return "Customer name is required and cannot be empty"
	case "LoanAmount":
		return "Loan amount must be a valid number greater than 0"
	case "InterestRate":
		return "Interest rate must be a valid number greater than or equal to 0"
	case "Amount":
		return "Payment amount must be greater than 0"
	case "Method":
		return "Payment method must be one of Cash, Card, Bank Transfer"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func (h *LoanHandler) respondError(w http.ResponseWriter, err error) {
	if v, ok := apperrors.AsValidation(err); ok {
		response.ValidationFailed(w, v.Messages)
		return
	}
	if errors.Is(err, apperrors.ErrLoanNotFound) {
		response.NotFound(w, "Loan not found")
		return
	}

	log.Printf("internal error: %v", err)
	if h.cfg.IsProduction() {
		response.InternalServerError(w, "Server Error", nil)
		return
	}
	response.InternalServerError(w, "Server Error", err)
}

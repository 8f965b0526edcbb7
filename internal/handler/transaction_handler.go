package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/service"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
)

type TransactionHandler struct {
	transactionService service.TransactionService
	validator          RequestValidator
	logger             *slog.Logger
}

func NewTransactionHandler(transactionService service.TransactionService, validator RequestValidator, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		validator:          validator,
		logger:             logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.ApplyTransaction).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/statement", h.GenerateStatement).Methods(http.MethodGet)
}

func (h *TransactionHandler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/loans/{id}/disbursements", h.RecordDisbursement).Methods(http.MethodPost)
	router.HandleFunc("/loans/{id}/repayments", h.RecordRepayment).Methods(http.MethodPost)
}

func (h *TransactionHandler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyTransactionRequest
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, "apply transaction") {
		return
	}

	transaction, err := h.transactionService.ApplyTransaction(r.Context(), req.AccountID, req.Amount, req.TransactionType)
	if err != nil {
		writeServiceError(w, h.logger, err, "apply transaction")
		return
	}

	u.WriteResponse(w, http.StatusCreated, transaction, "Transaction applied successfully")
}

func (h *TransactionHandler) RecordDisbursement(w http.ResponseWriter, r *http.Request) {
	adminID, req, ok := h.loanAmountRequest(w, r, "record disbursement")
	if !ok {
		return
	}

	transaction, err := h.transactionService.RecordDisbursement(r.Context(), mux.Vars(r)["id"], adminID, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, err, "record disbursement")
		return
	}

	u.WriteResponse(w, http.StatusCreated, transaction, "Loan disbursed successfully")
}

func (h *TransactionHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	adminID, req, ok := h.loanAmountRequest(w, r, "record repayment")
	if !ok {
		return
	}

	transaction, err := h.transactionService.RecordRepayment(r.Context(), mux.Vars(r)["id"], adminID, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, err, "record repayment")
		return
	}

	u.WriteResponse(w, http.StatusCreated, transaction, "Loan repayment successfully done")
}

func (h *TransactionHandler) loanAmountRequest(w http.ResponseWriter, r *http.Request, action string) (string, models.LoanAmountRequest, bool) {
	var req models.LoanAmountRequest
	adminID, ok := AdminIDFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "Authorization header required")
		return "", req, false
	}
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, action) {
		return "", req, false
	}
	return adminID, req, true
}

func (h *TransactionHandler) GenerateStatement(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := u.ParseDate(query.Get("start_date"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "start_date must be in the format "+u.DateLayout)
		return
	}
	end, err := u.ParseDate(query.Get("end_date"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "end_date must be in the format "+u.DateLayout)
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		u.WriteError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	period := service.StatementPeriod{Start: start, End: u.EndOfDay(end)}
	statement, err := h.transactionService.GenerateStatement(r.Context(), mux.Vars(r)["id"], period)
	if err != nil {
		writeServiceError(w, h.logger, err, "generate statement")
		return
	}

	u.WriteResponse(w, http.StatusOK, statement, "Transaction statement generated successfully")
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/service"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
)

type LoanHandler struct {
	loanService service.LoanService
	validator   RequestValidator
	logger      *slog.Logger
}

func NewLoanHandler(loanService service.LoanService, validator RequestValidator, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		validator:   validator,
		logger:      logger,
	}
}

func (h *LoanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/loans", h.ApplyForLoan).Methods(http.MethodPost)
	router.HandleFunc("/loans/{id}", h.GetLoan).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/loans", h.GetLoansByUser).Methods(http.MethodGet)
}

func (h *LoanHandler) ApplyForLoan(w http.ResponseWriter, r *http.Request) {
	var req models.LoanRequest
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, "apply for loan") {
		return
	}

	loan, err := h.loanService.ApplyForLoan(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "apply for loan")
		return
	}

	u.WriteResponse(w, http.StatusCreated, loan, "Loan applied successfully")
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanService.GetLoan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "get loan")
		return
	}

	u.WriteResponse(w, http.StatusOK, loan, "Loan details fetched successfully")
}

func (h *LoanHandler) GetLoansByUser(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.GetLoansByUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "get loans by user")
		return
	}

	u.WriteResponse(w, http.StatusOK, loans, "User loans details fetched successfully")
}

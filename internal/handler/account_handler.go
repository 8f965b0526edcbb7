package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/service"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
	"github.com/riteshkumar/loan-ledger/internal/validation"
)

// RequestValidator checks a decoded request body.
type RequestValidator interface {
	Validate(obj any) []validation.FieldError
}

type AccountHandler struct {
	accountService service.AccountService
	validator      RequestValidator
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, validator RequestValidator, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validator:      validator,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.UpdateAccount).Methods(http.MethodPut)
}

func (h *AccountHandler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.DeleteAccount).Methods(http.MethodDelete)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if !h.decode(w, r, &req, "create account") {
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create account")
		return
	}

	u.WriteResponse(w, http.StatusCreated, account, "User created successfully")
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "get account")
		return
	}

	u.WriteResponse(w, http.StatusOK, account, "User retrieved successfully")
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if !h.decode(w, r, &req, "update account") {
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "update account")
		return
	}

	u.WriteResponse(w, http.StatusOK, account, "User updated successfully")
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.DeleteAccount(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err, "delete account")
		return
	}

	u.WriteResponse(w, http.StatusOK, nil, "User account deleted successfully")
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "list accounts")
		return
	}

	u.WriteResponse(w, http.StatusOK, accounts, "Users data retrieve successfully")
}

func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, req any, action string) bool {
	return decodeAndValidate(w, r, req, h.validator, h.logger, action)
}

// decodeAndValidate reads the JSON body into req and runs tag validation,
// writing a 400 and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, validator RequestValidator, logger *slog.Logger, action string) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.Warn("invalid "+action+" request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if fieldErrors := validator.Validate(req); len(fieldErrors) > 0 {
		writeValidationErrors(w, fieldErrors)
		return false
	}
	return true
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/service"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
)

type AdminHandler struct {
	adminService service.AdminService
	validator    RequestValidator
	logger       *slog.Logger
}

func NewAdminHandler(adminService service.AdminService, validator RequestValidator, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validator:    validator,
		logger:       logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admins", h.CreateAdmin).Methods(http.MethodPost)
	router.HandleFunc("/admins/login", h.Login).Methods(http.MethodPost)
}

func (h *AdminHandler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/users/{id}/verify", h.VerifyUserAccount).Methods(http.MethodPut)
	router.HandleFunc("/loans/{id}/status", h.UpdateLoanStatus).Methods(http.MethodPut)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, "create admin") {
		return
	}

	admin, err := h.adminService.CreateAdmin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create admin")
		return
	}

	u.WriteResponse(w, http.StatusCreated, admin, "Admin created successfully")
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, "login") {
		return
	}

	resp, err := h.adminService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "login")
		return
	}

	u.WriteResponse(w, http.StatusOK, resp, "Login successful")
}

func (h *AdminHandler) VerifyUserAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminIDFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	if _, err := h.adminService.VerifyUserAccount(r.Context(), mux.Vars(r)["id"], adminID); err != nil {
		writeServiceError(w, h.logger, err, "verify account")
		return
	}

	u.WriteResponse(w, http.StatusOK, nil, "User verified successfully")
}

func (h *AdminHandler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminIDFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req models.UpdateLoanStatusRequest
	if !decodeAndValidate(w, r, &req, h.validator, h.logger, "update loan status") {
		return
	}

	loan, err := h.adminService.UpdateLoanStatus(r.Context(), mux.Vars(r)["id"], adminID, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err, "update loan status")
		return
	}

	u.WriteResponse(w, http.StatusOK, loan, "Loan status updated successfully")
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/internal/directory/service"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/httputil"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// DirectoryHandler serves the identity and manager lookup endpoints
type DirectoryHandler struct {
	service *service.DirectoryService
	logger  *logger.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(svc *service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: svc,
		logger:  log.WithComponent("directory-handler"),
	}
}

// RegisterRoutes registers the directory routes
func (h *DirectoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/validate_cedula", h.ValidateCedula)
	r.Post("/validate_user", h.ValidateUser)
	r.Get("/get_user_details", h.GetUserDetails)
	r.Get("/get_employees_under_leader", h.GetEmployeesUnderLeader)
}

// parseCedula parses a cedula carried as a JSON number or string.
// The legacy clients are inconsistent about which one they send.
func parseCedula(raw json.Number) (int64, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, errors.BadRequest("errors.cedula_required")
	}

	cedula, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequest("errors.cedula_numeric")
	}

	return cedula, nil
}

// parseCedulaQuery parses the cedula query parameter
func parseCedulaQuery(r *http.Request) (int64, error) {
	return parseCedula(json.Number(r.URL.Query().Get("cedula")))
}

type validateCedulaRequest struct {
	Cedula json.Number `json:"cedula" validate:"required"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
	domain.Profile
}

// ValidateCedula handles POST /validate_cedula
func (h *DirectoryHandler) ValidateCedula(w http.ResponseWriter, r *http.Request) {
	var req validateCedulaRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.cedula_required"); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	cedula, err := parseCedula(req.Cedula)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	profile, err := h.service.Resolve(r.Context(), cedula)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	httputil.JSON(w, http.StatusOK, validateResponse{Valid: true, Profile: *profile})
}

type validateUserRequest struct {
	Username json.Number `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
}

type validateUserResponse struct {
	Valid bool `json:"valid"`
	domain.Profile
	RequiresSecurityUpdate bool   `json:"requiresSecurityUpdate"`
	Token                  string `json:"token"`
}

// ValidateUser handles POST /validate_user
func (h *DirectoryHandler) ValidateUser(w http.ResponseWriter, r *http.Request) {
	var req validateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.credentials_required"); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	cedula, err := parseCedula(req.Username)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	result, err := h.service.Authenticate(r.Context(), cedula, req.Password)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"valid": false})
		return
	}

	httputil.JSON(w, http.StatusOK, validateUserResponse{
		Valid:                  true,
		Profile:                result.Profile,
		RequiresSecurityUpdate: result.RequiresSecurityUpdate,
		Token:                  result.Token,
	})
}

// GetUserDetails handles GET /get_user_details
func (h *DirectoryHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	cedula, err := parseCedulaQuery(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	profile, err := h.service.Resolve(r.Context(), cedula)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, profile)
}

type employeesUnderLeaderResponse struct {
	Success    bool                  `json:"success"`
	Employees  []service.Subordinate `json:"employees"`
	LeaderInfo domain.Profile        `json:"leader_info"`
}

// GetEmployeesUnderLeader handles GET /get_employees_under_leader
func (h *DirectoryHandler) GetEmployeesUnderLeader(w http.ResponseWriter, r *http.Request) {
	cedula, err := parseCedulaQuery(r)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	year := 0
	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err = strconv.Atoi(rawYear)
		if err != nil {
			httputil.ErrorWith(w, r, errors.BadRequest("errors.bad_request"),
				map[string]interface{}{"success": false})
			return
		}
	}

	result, err := h.service.Subordinates(r.Context(), cedula, year)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	httputil.JSON(w, http.StatusOK, employeesUnderLeaderResponse{
		Success:    true,
		Employees:  result.Employees,
		LeaderInfo: result.Leader,
	})
}

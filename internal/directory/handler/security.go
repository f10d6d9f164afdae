package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desempeno/evaluacion-backend/internal/directory/service"
	"github.com/desempeno/evaluacion-backend/pkg/httputil"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// SecurityHandler serves the password and security question endpoints
type SecurityHandler struct {
	service *service.DirectoryService
	logger  *logger.Logger
}

// NewSecurityHandler creates a new security handler
func NewSecurityHandler(svc *service.DirectoryService, log *logger.Logger) *SecurityHandler {
	return &SecurityHandler{
		service: svc,
		logger:  log.WithComponent("security-handler"),
	}
}

// RegisterRoutes registers the security routes
func (h *SecurityHandler) RegisterRoutes(r chi.Router) {
	r.Post("/change_password", h.ChangePassword)
	r.Post("/update_security_question", h.UpdateSecurityQuestion)
	r.Post("/get_security_question", h.GetSecurityQuestion)
	r.Post("/verify_security_answer", h.VerifySecurityAnswer)
	r.Post("/reset_password", h.ResetPassword)
}

func securityError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
}

type changePasswordRequest struct {
	Cedula          json.Number `json:"CEDULA" validate:"required"`
	OldPassword     string      `json:"oldPassword" validate:"required"`
	NewPassword     string      `json:"newPassword" validate:"required"`
	ConfirmPassword string      `json:"confirmPassword" validate:"required"`
}

// ChangePassword handles POST /change_password
func (h *SecurityHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		securityError(w, r, err)
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.password_fields_required"); err != nil {
		securityError(w, r, err)
		return
	}

	cedula, err := parseCedula(req.Cedula)
	if err != nil {
		securityError(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), cedula, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		securityError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type updateSecurityQuestionRequest struct {
	Username         json.Number `json:"username"`
	SecurityQuestion string      `json:"securityQuestion" validate:"required"`
	SecurityAnswer   string      `json:"securityAnswer" validate:"required"`
}

// UpdateSecurityQuestion handles POST /update_security_question
func (h *SecurityHandler) UpdateSecurityQuestion(w http.ResponseWriter, r *http.Request) {
	var req updateSecurityQuestionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		securityError(w, r, err)
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.security_answer_required"); err != nil {
		securityError(w, r, err)
		return
	}

	cedula, err := parseCedula(req.Username)
	if err != nil {
		securityError(w, r, err)
		return
	}

	if err := h.service.SetSecurityQuestion(r.Context(), cedula, req.SecurityQuestion, req.SecurityAnswer); err != nil {
		securityError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type usernameRequest struct {
	Username json.Number `json:"username"`
}

// GetSecurityQuestion handles POST /get_security_question
func (h *SecurityHandler) GetSecurityQuestion(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		securityError(w, r, err)
		return
	}

	cedula, err := parseCedula(req.Username)
	if err != nil {
		securityError(w, r, err)
		return
	}

	question, err := h.service.GetSecurityQuestion(r.Context(), cedula)
	if err != nil {
		securityError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"securityQuestion": question,
	})
}

type verifySecurityAnswerRequest struct {
	Username       json.Number `json:"username"`
	SecurityAnswer string      `json:"securityAnswer" validate:"required"`
}

// VerifySecurityAnswer handles POST /verify_security_answer
func (h *SecurityHandler) VerifySecurityAnswer(w http.ResponseWriter, r *http.Request) {
	var req verifySecurityAnswerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		securityError(w, r, err)
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.security_answer_required"); err != nil {
		securityError(w, r, err)
		return
	}

	cedula, err := parseCedula(req.Username)
	if err != nil {
		securityError(w, r, err)
		return
	}

	match, err := h.service.VerifySecurityAnswer(r.Context(), cedula, req.SecurityAnswer)
	if err != nil {
		securityError(w, r, err)
		return
	}

	// A wrong answer is still a 200; the client drives the retry flow.
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"success": match})
}

type resetPasswordRequest struct {
	Username    json.Number `json:"username"`
	NewPassword string      `json:"newPassword" validate:"required"`
}

// ResetPassword handles POST /reset_password.
// Callers are expected to have verified the security answer first; the
// endpoint itself only enforces the password policy.
func (h *SecurityHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		securityError(w, r, err)
		return
	}

	if err := httputil.ValidateWithKey(&req, "errors.password_fields_required"); err != nil {
		securityError(w, r, err)
		return
	}

	cedula, err := parseCedula(req.Username)
	if err != nil {
		securityError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), cedula, req.NewPassword); err != nil {
		securityError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

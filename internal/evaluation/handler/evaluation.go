package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/desempeno/evaluacion-backend/internal/evaluation/service"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/httputil"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// EvaluationHandler serves the evaluation endpoints
type EvaluationHandler struct {
	service *service.EvaluationService
	logger  *logger.Logger
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(svc *service.EvaluationService, log *logger.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: svc,
		logger:  log.WithComponent("evaluation-handler"),
	}
}

// RegisterRoutes registers the evaluation routes
func (h *EvaluationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submit_evaluation", h.SubmitEvaluation)
	r.Post("/get_evaluation_history", h.GetEvaluationHistory)
	r.Get("/get_all_evaluations", h.GetAllEvaluations)
	r.Get("/historial", h.Historial)
	r.Get("/get_employee_stats", h.GetEmployeeStats)
}

func parseCedulaQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("cedula"))
	if raw == "" {
		return 0, errors.BadRequest("errors.cedula_required")
	}

	cedula, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.BadRequest("errors.cedula_numeric")
	}

	return cedula, nil
}

// SubmitEvaluation handles POST /submit_evaluation
func (h *EvaluationHandler) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	if err := h.service.Submit(r.Context(), &req); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Evaluación guardada exitosamente",
	})
}

type historyRequest struct {
	Cedula json.Number `json:"cedula"`
}

// GetEvaluationHistory handles POST /get_evaluation_history
func (h *EvaluationHandler) GetEvaluationHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	raw := strings.TrimSpace(req.Cedula.String())
	if raw == "" {
		httputil.ErrorWith(w, r, errors.BadRequest("errors.cedula_required"),
			map[string]interface{}{"success": false})
		return
	}

	cedula, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.ErrorWith(w, r, errors.BadRequest("errors.cedula_numeric"),
			map[string]interface{}{"success": false})
		return
	}

	history, err := h.service.History(r.Context(), cedula)
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": history,
	})
}

// GetAllEvaluations handles GET /get_all_evaluations
func (h *EvaluationHandler) GetAllEvaluations(w http.ResponseWriter, r *http.Request) {
	evaluations, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.ErrorWith(w, r, err, map[string]interface{}{"success": false})
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"evaluations": evaluations,
	})
}

// Historial handles GET /historial
func (h *EvaluationHandler) Historial(w http.ResponseWriter, r *http.Request) {
	cedula, err := parseCedulaQuery(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.service.Historial(r.Context(), cedula, page, perPage)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// GetEmployeeStats handles GET /get_employee_stats
func (h *EvaluationHandler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	cedula, err := parseCedulaQuery(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), cedula)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

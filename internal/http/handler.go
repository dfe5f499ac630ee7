package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"grievance-service/internal/http/middleware"
	"grievance-service/internal/model"
	"grievance-service/internal/service"
)

type Handler struct {
	grievanceService *service.GrievanceService
	workflowService  *service.WorkflowService
	statsService     *service.StatsService
	log              zerolog.Logger
}

func NewHandler(
	grievanceService *service.GrievanceService,
	workflowService *service.WorkflowService,
	statsService *service.StatsService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		grievanceService: grievanceService,
		workflowService:  workflowService,
		statsService:     statsService,
		log:              log,
	}
}

func (h *Handler) submitGrievance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email"`
		City        string `json:"city" binding:"required"`
		Area        string `json:"area"`
		Pincode     string `json:"pincode"`
		ProofURL    string `json:"proof_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.SubmitGrievanceInput{
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		City:        req.City,
		Area:        req.Area,
		Pincode:     req.Pincode,
		ProofURL:    req.ProofURL,
	}

	grievance, err := h.grievanceService.Submit(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(grievance))
}

func (h *Handler) getGrievance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	ref := strings.TrimSpace(c.Param("ref"))
	grievance, err := h.grievanceService.Get(c.Request.Context(), principal, ref)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(grievance))
}

func (h *Handler) getGrievanceHistory(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	ref := strings.TrimSpace(c.Param("ref"))
	entries, err := h.grievanceService.History(c.Request.Context(), principal, ref)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}

func (h *Handler) updateGrievanceStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	ref := strings.TrimSpace(c.Param("ref"))

	var req struct {
		Status   string `json:"status" binding:"required"`
		Note     string `json:"note"`
		ProofURL string `json:"proof_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	// Membership of the status set is the workflow engine's call, so an
	// unknown value passes through normalized rather than being rejected
	// here.
	target, _ := model.ParseStatus(req.Status)

	result, err := h.workflowService.Transition(c.Request.Context(), principal, service.TransitionInput{
		Ref:      ref,
		Target:   target,
		Note:     req.Note,
		ProofURL: req.ProofURL,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listGrievancesByUser(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	limit, offset := parsePagination(c)

	grievances, err := h.grievanceService.ListByUser(c.Request.Context(), principal, userID, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": grievances}))
}

func (h *Handler) listGrievancesByDepartment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	deptParam := strings.TrimSpace(c.Param("dept"))
	var department model.Department
	if !strings.EqualFold(deptParam, "all") {
		department = model.ParseDepartment(deptParam)
	}

	opts := service.ListByDepartmentOptions{}
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			status, ok := model.ParseStatus(val)
			if !ok {
				c.JSON(http.StatusBadRequest, errorResponse("invalid status filter"))
				return
			}
			opts.Statuses = append(opts.Statuses, status)
		}
	}
	if priorityParam := c.Query("priority"); priorityParam != "" {
		for _, val := range splitCSV(priorityParam) {
			priority, ok := model.ParsePriority(val)
			if !ok {
				c.JSON(http.StatusBadRequest, errorResponse("invalid priority filter"))
				return
			}
			opts.Priorities = append(opts.Priorities, priority)
		}
	}
	opts.Limit, opts.Offset = parsePagination(c)

	grievances, err := h.grievanceService.ListByDepartment(c.Request.Context(), principal, department, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": grievances}))
}

func (h *Handler) listStatusStages(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": model.AllStatuses()}))
}

func (h *Handler) listDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": model.AllDepartments()}))
}

func (h *Handler) dashboardStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	scope := strings.TrimSpace(c.Param("scope"))

	stats, err := h.statsService.Dashboard(c.Request.Context(), principal, scope)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoOpTransition), errors.Is(err, service.ErrTransitionNotAllowed):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrMissingEvidence), errors.Is(err, service.ErrVerificationRejected):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, service.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parsePagination(c *gin.Context) (limit, offset int) {
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	return limit, offset
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}

package handler

import (
	"errors"
	"net/http"

	"dealdesk_backend/internal/buyers/service"
	"dealdesk_backend/internal/buyers/transport"
	"dealdesk_backend/internal/http/response"
	"dealdesk_backend/platform/apperr"
	"dealdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/stage", h.UpdateStage)
	rg.GET("/:id/history", h.ListHistory)
}

// RegisterAnalyticsRoutes mounts the funnel and summary read endpoints.
func (h *Handler) RegisterAnalyticsRoutes(rg *gin.RouterGroup) {
	rg.GET("/funnel", h.FunnelMetrics)
	rg.GET("/summary", h.StageSummary)
}

// RegisterStageRoutes mounts the stage graph metadata endpoint.
func (h *Handler) RegisterStageRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.StageGraph)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := validator.Validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	buyer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, buyer)
}

func (h *Handler) List(c *gin.Context) {
	companyID, ok := optionalCompanyID(c)
	if !ok {
		return
	}

	buyers, err := h.svc.List(c.Request.Context(), companyID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, buyers)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	buyer, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, buyer)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := validator.Validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	buyer, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, buyer)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := validator.Validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	buyer, err := h.svc.UpdateStage(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, buyer)
}

func (h *Handler) ListHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	history, err := h.svc.ListHistory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, history)
}

func (h *Handler) FunnelMetrics(c *gin.Context) {
	companyID, ok := optionalCompanyID(c)
	if !ok {
		return
	}

	report, err := h.svc.FunnelMetrics(c.Request.Context(), companyID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, report)
}

func (h *Handler) StageSummary(c *gin.Context) {
	companyID, ok := optionalCompanyID(c)
	if !ok {
		return
	}

	summary, err := h.svc.StageSummary(c.Request.Context(), companyID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.OK(c, summary)
}

func (h *Handler) StageGraph(c *gin.Context) {
	response.OK(c, h.svc.StageGraph())
}

// optionalCompanyID parses the companyId query parameter. The second
// return is false when the parameter is present but malformed; the
// error response has already been written in that case.
func optionalCompanyID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("companyId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid companyId", nil)
		return nil, false
	}
	return &id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		response.Error(c, appErr.HTTPStatus(), appErr.Message, appErr.Details)
		return
	}
	response.Error(c, http.StatusInternalServerError, "internal error", nil)
}

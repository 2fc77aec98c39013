package amount

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/amount"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *amount.Service
}

func NewHandler(service *amount.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	amounts := r.Group("/amounts")
	{
		amounts.POST("", h.CreateAmount)
		amounts.GET("/:id", h.GetAmount)
		amounts.DELETE("/:id", h.DeleteAmount)
	}
	r.GET("/appointments/:id/amounts", h.ListByAppointment)
}

func (h *Handler) CreateAmount(c *gin.Context) {
	var req model.CreateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	a, err := h.service.CreateAmount(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, a)
}

func (h *Handler) GetAmount(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetAmount(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, a)
}

func (h *Handler) DeleteAmount(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAmount(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id})
}

func (h *Handler) ListByAppointment(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	amounts, err := h.service.ListByAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, amounts)
}

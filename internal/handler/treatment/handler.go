package treatment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/treatment"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *treatment.Service
}

func NewHandler(service *treatment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	treatments := r.Group("/treatments")
	{
		treatments.POST("", h.CreateTreatment)
		treatments.GET("", h.ListTreatments)
		treatments.GET("/:id", h.GetTreatment)
	}
	r.GET("/patients/:id/treatments", h.ListByPatient)
}

func (h *Handler) CreateTreatment(c *gin.Context) {
	var req model.CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	t, err := h.service.CreateTreatment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, t)
}

func (h *Handler) GetTreatment(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetTreatment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) ListTreatments(c *gin.Context) {
	treatments, err := h.service.ListTreatments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, treatments)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	treatments, err := h.service.ListByPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, treatments)
}

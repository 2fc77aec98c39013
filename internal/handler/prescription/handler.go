package prescription

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/prescription"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.DELETE("/:id", h.DeletePrescription)
	}
	r.GET("/patients/:id/prescriptions", h.ListByPatient)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	p, err := h.service.CreatePrescription(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	p, err := h.service.UpdatePrescription(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id})
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.ListPrescriptions(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	prescriptions, err := h.service.ListByPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

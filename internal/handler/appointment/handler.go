package appointment

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/appointment"
	"github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id})
}

// ListAppointments supports ?patientId=&status=&startDate=&endDate=
func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}

	if v := c.Query("patientId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid patientId", err))
			return
		}
		filters.PatientID = id
	}

	var err error
	if filters.StartDate, err = model.ParseDate(c.Query("startDate")); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid startDate", err))
		return
	}
	if filters.EndDate, err = model.ParseDate(c.Query("endDate")); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid endDate", err))
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

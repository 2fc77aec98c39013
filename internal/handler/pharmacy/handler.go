package pharmacy

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/pharmacy"
	"github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *pharmacy.Service
}

func NewHandler(service *pharmacy.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	medicines := r.Group("/medicines")
	{
		medicines.POST("", h.CreateMedicine)
		medicines.GET("", h.ListMedicines)
		medicines.GET("/:id", h.GetMedicine)
		medicines.PUT("/:id", h.UpdateMedicine)
		medicines.DELETE("/:id", h.DeleteMedicine)
	}

	sales := r.Group("/pharmacy/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSale)
	}
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var req model.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	m, err := h.service.CreateMedicine(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, m)
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetMedicine(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	m, err := h.service.UpdateMedicine(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMedicine(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id})
}

func (h *Handler) ListMedicines(c *gin.Context) {
	medicines, err := h.service.ListMedicines(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, medicines)
}

func (h *Handler) CreateSale(c *gin.Context) {
	var req model.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	sale, err := h.service.CreateSale(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, sale)
}

func (h *Handler) GetSale(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sale)
}

// ListSales supports ?startDate=&endDate=&limit=&offset=
func (h *Handler) ListSales(c *gin.Context) {
	filters := &model.SaleFilters{}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	start, err := model.ParseDate(c.Query("startDate"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid startDate", err))
		return
	}
	end, err := model.ParseDate(c.Query("endDate"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid endDate", err))
		return
	}
	if start != nil {
		s := model.StartOfDay(*start)
		filters.StartDate = &s
	}
	if end != nil {
		e := model.EndOfDay(*end)
		filters.EndDate = &e
	}

	sales, err := h.service.ListSales(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sales)
}

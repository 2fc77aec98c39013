package customer

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/customer"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *customer.Service
}

func NewHandler(service *customer.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/pharmacy/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("/:phone", h.GetByPhone)
	}
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	cust, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, cust)
}

// GetByPhone looks a walk-in customer up by phone, the pharmacy counter's key.
func (h *Handler) GetByPhone(c *gin.Context) {
	cust, err := h.service.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cust)
}

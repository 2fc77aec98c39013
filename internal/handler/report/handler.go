package report

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/service/report"
	"github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports/:kind", h.GetReport)
}

type reportQuery struct {
	Period    string `form:"period"`
	StartDate string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"required,datetime=2006-01-02"`
}

// GetReport serves /reports/{patients|appointments|financial|pharmacy}.
func (h *Handler) GetReport(c *gin.Context) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	req, err := ParseRequest(q.Period, q.StartDate, q.EndDate)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	stats, err := h.service.Build(c.Request.Context(), model.ReportKind(c.Param("kind")), req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

// ParseRequest turns YYYY-MM-DD bounds into a ReportRequest.
func ParseRequest(period, startDate, endDate string) (model.ReportRequest, error) {
	start, err := model.ParseDate(startDate)
	if err != nil || start == nil {
		return model.ReportRequest{}, errors.BadRequest("startDate must be YYYY-MM-DD", err)
	}
	end, err := model.ParseDate(endDate)
	if err != nil || end == nil {
		return model.ReportRequest{}, errors.BadRequest("endDate must be YYYY-MM-DD", err)
	}
	return model.ReportRequest{Period: period, StartDate: *start, EndDate: *end}, nil
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, report.ErrInvalidRange):
		return errors.BadRequest(err.Error(), err)
	case stderrors.Is(err, report.ErrUnknownReport):
		return errors.NotFound("report", err)
	default:
		return errors.Internal(err)
	}
}

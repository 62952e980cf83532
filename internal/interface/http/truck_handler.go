package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/application"
	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
	"github.com/oksasatya/factory-erp/pkg/response"
	"github.com/oksasatya/factory-erp/pkg/validation"
)

type TruckHandler struct {
	Svc *application.TruckService
}

func NewTruckHandler(svc *application.TruckService) *TruckHandler {
	return &TruckHandler{Svc: svc}
}

type recordTruckRequest struct {
	PlateNumber string `json:"plate_number" binding:"required,min=1,max=20"`
	Direction   string `json:"direction" binding:"required,direction"`
	DriverName  string `json:"driver_name" binding:"max=100"`
	Note        string `json:"note" binding:"max=500"`
}

type listTrucksQuery struct {
	pageQuery
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
	Direction string `form:"direction" binding:"omitempty,direction"`
}

type truckResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	PlateNumber string `json:"plate_number"`
	Direction   string `json:"direction"`
	DriverName  string `json:"driver_name"`
	Note        string `json:"note"`
	RecordedAt  string `json:"recorded_at"`
}

func toTruckResponse(e *entity.TruckEntry) truckResponse {
	return truckResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		PlateNumber: e.PlateNumber,
		Direction:   string(e.Direction),
		DriverName:  e.DriverName,
		Note:        e.Note,
		RecordedAt:  e.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func (h *TruckHandler) Record(c *gin.Context) {
	var req recordTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.Record(c.Request.Context(), middleware.UserID(c), application.RecordTruckInput{
		PlateNumber: req.PlateNumber,
		Direction:   entity.Direction(req.Direction),
		DriverName:  req.DriverName,
		Note:        req.Note,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTruckResponse(e), "truck recorded", nil)
}

// List filters by user_id; Ownership has already pinned it for gatekeepers.
func (h *TruckHandler) List(c *gin.Context) {
	var q listTrucksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	entries, err := h.Svc.List(c.Request.Context(), entity.TruckFilter{
		UserID:    q.UserID,
		Direction: entity.Direction(q.Direction),
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]truckResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toTruckResponse(&entries[i]))
	}
	response.Success(c, http.StatusOK, out, "trucks", pageMeta(q.pageQuery, len(out)))
}

// Package appointment exposes the staff agenda: listing appointments, direct
// status transitions and the manual expiry sweep.
package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medagenda/booking-api/internal/handler"
	"github.com/medagenda/booking-api/internal/model"
	appointmentService "github.com/medagenda/booking-api/internal/service/appointment"
	"github.com/medagenda/booking-api/internal/worker"
)

type Handler struct {
	service *appointmentService.Service
	sweeper *worker.ExpiryWorker
}

func NewHandler(service *appointmentService.Service, sweeper *worker.ExpiryWorker) *Handler {
	return &Handler{service: service, sweeper: sweeper}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListAppointments)
	r.GET("/appointments/:id", h.GetAppointment)
	r.PATCH("/appointments/:id/status", h.UpdateStatus)
	r.POST("/sweeps", h.RunSweep)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appts, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]*model.Appointment, 0, len(appts))
		for _, appt := range appts {
			if appt.Status == model.AppointmentStatus(status) {
				filtered = append(filtered, appt)
			}
		}
		appts = filtered
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

// RunSweep triggers one expiry pass and reports how many appointments it
// transitioned.
func (h *Handler) RunSweep(c *gin.Context) {
	count, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"expired": count}))
}

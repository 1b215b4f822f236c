// Package booking exposes the patient-facing surface: free slots, booking,
// and the token-authorized confirm and manage actions.
package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medagenda/booking-api/internal/handler"
	"github.com/medagenda/booking-api/internal/model"
	appointmentService "github.com/medagenda/booking-api/internal/service/appointment"
	"github.com/medagenda/booking-api/internal/service/schedule"
	"github.com/medagenda/booking-api/pkg/metrics"
)

type Handler struct {
	slots        *schedule.Service
	appointments *appointmentService.Service
	horizonDays  int
	metrics      *metrics.Metrics
}

func NewHandler(slots *schedule.Service, appointments *appointmentService.Service, horizonDays int, m *metrics.Metrics) *Handler {
	if horizonDays <= 0 {
		horizonDays = schedule.DefaultHorizonDays
	}
	return &Handler{
		slots:        slots,
		appointments: appointments,
		horizonDays:  horizonDays,
		metrics:      m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/slots", h.ListSlots)
	r.POST("/appointments", h.CreateAppointment)
	r.POST("/confirmations/:token", h.Confirm)
	r.GET("/appointments/manage/:token", h.Manage)
	r.DELETE("/appointments/manage/:token", h.Cancel)
}

type slotQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=90"`
}

func (h *Handler) ListSlots(c *gin.Context) {
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	days := q.Days
	if days == 0 {
		days = h.horizonDays
	}

	slots, err := h.slots.GenerateSlots(c.Request.Context(), days)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	h.metrics.SlotsGenerated.Observe(float64(len(slots)))

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

// bookingView is what the patient sees after booking: the appointment plus
// the two links the notification email would normally carry.
type bookingView struct {
	Appointment     *model.Appointment `json:"appointment"`
	ConfirmationURL string             `json:"confirmation_url"`
	ManagementURL   string             `json:"management_url"`
	DeadlineHours   int                `json:"confirmation_deadline_hours"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.appointments.Book(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	h.metrics.AppointmentsCreated.Inc()

	view := &bookingView{
		Appointment:     appt,
		ConfirmationURL: "/api/v1/public/confirmations/" + appt.ConfirmationToken,
		ManagementURL:   "/api/v1/public/appointments/manage/" + appt.ManagementToken,
		DeadlineHours:   int(appt.Start.Sub(appt.ConfirmationDeadline).Hours()),
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(view))
}

// Confirm resolves a confirmation token. Expired and already-confirmed are
// user-visible outcomes carried in a 200 body, not faults; only an unknown
// token is an error.
func (h *Handler) Confirm(c *gin.Context) {
	res, err := h.appointments.ConfirmByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

func (h *Handler) Manage(c *gin.Context) {
	appt, err := h.appointments.FindByManagementToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) Cancel(c *gin.Context) {
	res, err := h.appointments.CancelByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

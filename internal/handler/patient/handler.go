package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medagenda/booking-api/internal/handler"
	"github.com/medagenda/booking-api/internal/repository"
)

type Handler struct {
	store repository.Store
}

func NewHandler(store repository.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients", h.ListPatients)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.store.Patients(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

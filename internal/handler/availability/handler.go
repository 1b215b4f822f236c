// Package availability exposes the weekly agenda configuration to staff.
// Rules are edited or toggled as a whole set, never deleted one by one.
package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medagenda/booking-api/internal/handler"
	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository"
	apperrors "github.com/medagenda/booking-api/pkg/errors"
)

type Handler struct {
	store repository.Store
}

func NewHandler(store repository.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.ListRules)
	r.PUT("/availability", h.ReplaceRules)
}

func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.store.Rules(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rules))
}

// ReplaceRules stores the whole rule set. Every submitted rule must already
// exist: staff can edit and toggle rules, not add or drop them.
func (h *Handler) ReplaceRules(c *gin.Context) {
	var req []*model.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	existing, err := h.store.Rules(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	updated := make([]*model.AvailabilityRule, 0, len(existing))
	for _, rule := range existing {
		next := *rule
		for _, r := range req {
			if r.ID == rule.ID {
				next.DayOfWeek = r.DayOfWeek
				next.StartTime = r.StartTime
				next.EndTime = r.EndTime
				next.DurationMinutes = r.DurationMinutes
				next.Active = r.Active
				break
			}
		}
		updated = append(updated, &next)
	}

	for _, r := range req {
		if !containsRule(existing, r) {
			handler.RespondWithError(c, apperrors.NewNotFound("availability rule", nil))
			return
		}
	}

	if err := h.store.SaveRules(c.Request.Context(), updated); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func containsRule(rules []*model.AvailabilityRule, req *model.UpdateRuleRequest) bool {
	for _, rule := range rules {
		if rule.ID == req.ID {
			return true
		}
	}
	return false
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/platescout/platescout/internal/api/middleware"
	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/web"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

// RatingHandler handles the rating pages
type RatingHandler struct {
	restaurants repositories.RestaurantRepository
	renderer    *web.Renderer
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(restaurants repositories.RestaurantRepository, renderer *web.Renderer) *RatingHandler {
	return &RatingHandler{
		restaurants: restaurants,
		renderer:    renderer,
	}
}

// ShowRate handles GET /rate
func (h *RatingHandler) ShowRate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	h.renderer.Render(w, "rate", &web.RateData{
		UserID:     sess.UserID,
		Restaurant: middleware.RestaurantFrom(r.Context()),
	})
}

// Rate handles POST /rate
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	restaurant := middleware.RestaurantFrom(r.Context())
	back := backToCatalog(sess)

	score, err := strconv.ParseFloat(r.FormValue("score"), 64)
	if err != nil {
		h.renderError(w, apperrors.NewValidationError("The score must be a number"), back)
		return
	}
	if err := entities.ValidateScore(score); err != nil {
		h.renderError(w, err, back)
		return
	}

	restaurant.Grades = append(restaurant.Grades, entities.Grade{
		Score:     score,
		User:      sess.UserID,
		CreatedAt: time.Now(),
	})

	if err := h.restaurants.Update(r.Context(), restaurant); err != nil {
		h.renderError(w, err, back)
		return
	}

	h.renderer.Render(w, "info", &web.InfoData{
		Info: "Thank you for rating the restaurant",
		Back: "/display?_id=" + restaurant.ID,
	})
}

func (h *RatingHandler) renderError(w http.ResponseWriter, err error, back string) {
	msg := "Internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type != apperrors.ErrorTypeInternal {
		msg = appErr.Message
	} else {
		log.Error().Err(err).Msg("rating failed")
	}
	h.renderer.Render(w, "error", &web.ErrorData{Error: msg, Back: back})
}

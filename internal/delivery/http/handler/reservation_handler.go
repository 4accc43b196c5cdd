package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainReservation "rideshare-backend/internal/domain/reservation"
	"rideshare-backend/internal/usecase/reservation"
	"rideshare-backend/pkg/utils"
)

type ReservationHandler struct {
	service *reservation.Service
}

func NewReservationHandler(service *reservation.Service) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/posts")
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		posts.Handle(method, "/reservation/:title", h.Reserve)
		posts.Handle(method, "/reservationid/:id", h.Reserve)
		posts.Handle(method, "/reservation_annule/:title", h.Cancel)
		posts.Handle(method, "/reservation_annuleid/:id", h.Cancel)
	}

	router.GET("/user/history", h.history(domainReservation.ScopeVisited))
	router.GET("/user/myreservation", h.history(domainReservation.ScopeIncoming))
	router.GET("/user/trajet", h.history(domainReservation.ScopeTrips))
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	ref, ok := listingRef(c)
	if !ok {
		return
	}

	confirmation, err := h.service.Reserve(c.Request.Context(), identity.UserID, ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, confirmation.Message, confirmation)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	ref, ok := listingRef(c)
	if !ok {
		return
	}

	confirmation, err := h.service.Cancel(c.Request.Context(), identity.UserID, ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, confirmation.Message, confirmation)
}

func (h *ReservationHandler) history(scope domainReservation.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := requireIdentity(c)
		if !ok {
			return
		}

		histories, err := h.service.History(c.Request.Context(), identity.UserID, scope)
		if err != nil {
			respondWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", histories)
	}
}

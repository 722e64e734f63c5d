package handler

import (
	"net/http"
	"strconv"

	"event-reservations/internal/model"
	"event-reservations/internal/service"

	"github.com/gin-gonic/gin"
)

// ReservationHandler is the public, unauthenticated surface: reserving
// seats, reading seat availability, and retrieving a ticket by its
// access token.
type ReservationHandler struct {
	reservations service.ReservationService
	ledger       service.LedgerService
}

func NewReservationHandler(reservations service.ReservationService, ledger service.LedgerService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, ledger: ledger}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:id/reservations", h.Reserve)
		router.GET("events/:id/seats", h.GetSeatsInfo)
		router.GET("tickets/:token", h.GetTicket)
	}
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req model.ReserveRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.reservations.Reserve(c, eventID, req)
	if err != nil {
		handleError(c, err, "Reserve")
		return
	}

	if result.Ticket != nil {
		c.JSON(http.StatusCreated, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReservationHandler) GetSeatsInfo(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	info, err := h.ledger.ComputeSeatsInfo(c, eventID)
	if err != nil {
		handleError(c, err, "GetSeatsInfo")
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *ReservationHandler) GetTicket(c *gin.Context) {
	ticket, err := h.reservations.GetByAccessToken(c, c.Param("token"))
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"event-reservations/internal/middleware"
	"event-reservations/internal/model"
	"event-reservations/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the staff surface, mounted behind the admin-key
// middleware.
type AdminHandler struct {
	admin    service.AdminService
	adminKey string
}

func NewAdminHandler(admin service.AdminService, adminKey string) *AdminHandler {
	return &AdminHandler{admin: admin, adminKey: adminKey}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/admin", middleware.AdminAuth(h.adminKey))
	{
		router.GET("events/:id/tickets", h.ListTickets)
		router.GET("events/:id/tickets/export", h.ExportTickets)
		router.PUT("tickets/:id/checkin", h.CheckIn)
		router.PUT("tickets/:id/status", h.SetStatus)
	}
}

type ticketListQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

func (q ticketListQuery) filter() model.TicketFilter {
	return model.TicketFilter{
		Search: q.Search,
		Status: model.TicketStatus(q.Status),
	}
}

func (h *AdminHandler) ListTickets(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var query ticketListQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	tickets, err := h.admin.ListTickets(c, eventID, query.filter())
	if err != nil {
		handleError(c, err, "ListTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *AdminHandler) ExportTickets(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var query ticketListQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%d-tickets.csv"`, eventID))

	if err := h.admin.ExportTickets(c, c.Writer, eventID, query.filter()); err != nil {
		handleError(c, err, "ExportTickets")
		return
	}
}

func (h *AdminHandler) CheckIn(c *gin.Context) {
	ticketID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	ticket, err := h.admin.CheckIn(c, ticketID)
	if err != nil {
		handleError(c, err, "CheckIn")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	ticketID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	var req setStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.admin.SetStatus(c, ticketID, model.TicketStatus(req.Status))
	if err != nil {
		handleError(c, err, "SetStatus")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sitedesk/internal/application/ticket/usecases"
	"sitedesk/internal/interfaces/dto"
	"sitedesk/internal/interfaces/http/middleware"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/utils"
)

type TicketHandler struct {
	createUC *usecases.CreateTicketUseCase
	updateUC *usecases.UpdateTicketUseCase
	getUC    *usecases.GetTicketUseCase
	listUC   *usecases.ListTicketsUseCase
	logger   logger.Interface
}

func NewTicketHandler(
	createUC *usecases.CreateTicketUseCase,
	updateUC *usecases.UpdateTicketUseCase,
	getUC *usecases.GetTicketUseCase,
	listUC *usecases.ListTicketsUseCase,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
		listUC:   listUC,
		logger:   logger,
	}
}

// CreateTicket godoc
// @Summary Create ticket
// @Description Create a ticket at a site; the site-scoped number is allocated server-side
// @Tags tickets
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param request body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse{data=dto.TicketResponse} "Ticket created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 404 {object} utils.APIResponse "Site not found"
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	detail, err := h.getUC.ByID(c.Request.Context(), result.TicketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.TicketResponseFromDetail(detail), "Ticket created successfully")
}

// GetTicket godoc
// @Summary Get ticket
// @Description Get a ticket by numeric ID
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse}
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	detail, err := h.getUC.ByID(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.TicketResponseFromDetail(detail))
}

// GetTicketByNumber godoc
// @Summary Get ticket by number
// @Description Get a ticket by its human-facing number, e.g. MEAD00042
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param number path string true "Ticket number"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse}
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Router /tickets/number/{number} [get]
func (h *TicketHandler) GetTicketByNumber(c *gin.Context) {
	number := c.Param("number")

	detail, err := h.getUC.ByNumber(c.Request.Context(), number)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.TicketResponseFromDetail(detail))
}

// ListTickets godoc
// @Summary List tickets
// @Description List tickets with optional status, priority, source, site and assignee filters
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param source query string false "Filter by source"
// @Param site_id query int false "Filter by site"
// @Param assignee_id query int false "Filter by assignee"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	query := usecases.ListTicketsQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Source:   c.Query("source"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	if siteID, ok := parseQueryUint(c, "site_id"); ok {
		query.SiteID = &siteID
	}
	if assigneeID, ok := parseQueryUint(c, "assignee_id"); ok {
		query.AssigneeID = &assigneeID
	}
	if creatorID, ok := parseQueryUint(c, "creator_id"); ok {
		query.CreatorID = &creatorID
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c,
		dto.TicketResponsesFromDetails(result.Tickets),
		result.Total, result.Page, result.PageSize)
}

// UpdateTicket godoc
// @Summary Update ticket
// @Description Change status, priority, assignee or due date; every change writes history
// @Tags tickets
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Ticket ID"
// @Param request body dto.UpdateTicketRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.TicketResponse}
// @Failure 400 {object} utils.APIResponse "Invalid transition"
// @Failure 404 {object} utils.APIResponse "Ticket not found"
// @Router /tickets/{id} [patch]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.updateUC.Execute(c.Request.Context(), req.ToCommand(ticketID, userID)); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	detail, err := h.getUC.ByID(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", dto.TicketResponseFromDetail(detail))
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"sitedesk/internal/application/recurrence/usecases"
	"sitedesk/internal/interfaces/dto"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/utils"
)

type RecurrenceHandler struct {
	createUC     *usecases.CreateRuleUseCase
	deactivateUC *usecases.DeactivateRuleUseCase
	logger       logger.Interface
}

func NewRecurrenceHandler(
	createUC *usecases.CreateRuleUseCase,
	deactivateUC *usecases.DeactivateRuleUseCase,
	logger logger.Interface,
) *RecurrenceHandler {
	return &RecurrenceHandler{
		createUC:     createUC,
		deactivateUC: deactivateUC,
		logger:       logger,
	}
}

// CreateRule godoc
// @Summary Create recurrence rule
// @Description Schedule automatic ticket generation from a template ticket
// @Tags recurrence
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body dto.CreateRuleRequest true "Rule data"
// @Success 201 {object} utils.APIResponse{data=dto.RuleResponse} "Rule created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 404 {object} utils.APIResponse "Template ticket not found"
// @Router /recurrence-rules [post]
func (h *RecurrenceHandler) CreateRule(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create rule", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, &dto.RuleResponse{
		ID:              result.RuleID,
		NextScheduledAt: result.NextScheduledAt,
	}, "Recurrence rule created successfully")
}

// DeactivateRule godoc
// @Summary Deactivate recurrence rule
// @Description Stop a rule from generating further tickets; already-generated tickets stay
// @Tags recurrence
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path int true "Rule ID"
// @Success 204 "Rule deactivated"
// @Failure 404 {object} utils.APIResponse "Rule not found or already inactive"
// @Router /recurrence-rules/{id} [delete]
func (h *RecurrenceHandler) DeactivateRule(c *gin.Context) {
	ruleID, err := utils.ParseUintParam(c, "id", "recurrence rule")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), ruleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sitedesk/internal/application/site/usecases"
	"sitedesk/internal/interfaces/dto"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/utils"
)

type SiteHandler struct {
	createUC *usecases.CreateSiteUseCase
	listUC   *usecases.ListSitesUseCase
	logger   logger.Interface
}

func NewSiteHandler(createUC *usecases.CreateSiteUseCase, listUC *usecases.ListSitesUseCase, logger logger.Interface) *SiteHandler {
	return &SiteHandler{
		createUC: createUC,
		listUC:   listUC,
		logger:   logger,
	}
}

// CreateSite godoc
// @Summary Create site
// @Description Register a new site; its ticket number prefix derives from the name
// @Tags sites
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body dto.CreateSiteRequest true "Site data"
// @Success 201 {object} utils.APIResponse{data=dto.SiteResponse} "Site created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Router /sites [post]
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create site", "error", err)
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

	utils.CreatedResponse(c, &dto.SiteResponse{
		ID:        result.SiteID,
		Name:      result.Name,
		Prefix:    result.Prefix,
		CreatedAt: result.CreatedAt,
	}, "Site created successfully")
}

// ListSites godoc
// @Summary List sites
// @Tags sites
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /sites [get]
func (h *SiteHandler) ListSites(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	offset := (pagination.Page - 1) * pagination.PageSize

	result, err := h.listUC.Execute(c.Request.Context(), pagination.PageSize, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c,
		dto.SiteResponsesFromItems(result.Sites),
		result.Total, pagination.Page, pagination.PageSize)
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

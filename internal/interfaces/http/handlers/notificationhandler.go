package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitedesk/internal/application/notification/usecases"
	"sitedesk/internal/interfaces/dto"
	"sitedesk/internal/interfaces/http/middleware"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/utils"
)

type NotificationHandler struct {
	listUC     *usecases.ListNotificationsUseCase
	markReadUC *usecases.MarkNotificationReadUseCase
	digestUC   *usecases.DailyDigestUseCase
	logger     logger.Interface
}

func NewNotificationHandler(
	listUC *usecases.ListNotificationsUseCase,
	markReadUC *usecases.MarkNotificationReadUseCase,
	digestUC *usecases.DailyDigestUseCase,
	logger logger.Interface,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:     listUC,
		markReadUC: markReadUC,
		digestUC:   digestUC,
		logger:     logger,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description List the current user's notifications, newest first, with unread count
// @Tags notifications
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=dto.NotificationListResponse}
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	offset := (pagination.Page - 1) * pagination.PageSize

	result, err := h.listUC.Execute(c.Request.Context(), userID, pagination.PageSize, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.NotificationListResponseFromResult(result))
}

// MarkNotificationRead godoc
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param id path int true "Notification ID"
// @Success 204 "Marked read"
// @Failure 403 {object} utils.APIResponse "Not the owner"
// @Failure 404 {object} utils.APIResponse "Notification not found"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	notificationID, err := utils.ParseUintParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.markReadUC.Execute(c.Request.Context(), userID, notificationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// RefreshDigest godoc
// @Summary Refresh daily digest
// @Description Build today's digest for the current user if it has not run yet; idempotent within a business day
// @Tags notifications
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param X-User-Email header string false "Acting user email for digest delivery"
// @Success 200 {object} utils.APIResponse{data=dto.DigestRunResponse}
// @Router /notifications/digest/refresh [post]
func (h *NotificationHandler) RefreshDigest(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.digestUC.Execute(c.Request.Context(), usecases.DailyDigestCommand{
		UserID: userID,
		Email:  middleware.CurrentUserEmail(c),
		Now:    time.Now().UTC(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &dto.DigestRunResponse{
		Ran:           result.Ran,
		DueSoonCount:  result.DueSoonCount,
		ActivityCount: result.ActivityCount,
	})
}

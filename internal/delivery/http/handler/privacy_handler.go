package handler

import (
	"net/http"

	"github.com/gdugdh24/proximity-backend/internal/usecase/privacy"
	"github.com/gin-gonic/gin"
)

type PrivacyHandler struct {
	privacyUseCase *privacy.PrivacyUseCase
}

func NewPrivacyHandler(privacyUseCase *privacy.PrivacyUseCase) *PrivacyHandler {
	return &PrivacyHandler{
		privacyUseCase: privacyUseCase,
	}
}

// GetPrivacy handles GET /privacy
// @Summary Get privacy settings
// @Tags privacy
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.PrivacyPreference
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /privacy [get]
func (h *PrivacyHandler) GetPrivacy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pref, err := h.privacyUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		failure(c, err, "failed to get privacy settings")
		return
	}

	c.JSON(http.StatusOK, pref)
}

// UpdatePrivacy handles PUT /privacy
// @Summary Update privacy settings
// @Description Partial update; omitted fields keep their value.
// @Tags privacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body privacy.UpdatePrivacyRequest true "Settings"
// @Success 200 {object} domain.PrivacyPreference
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /privacy [put]
func (h *PrivacyHandler) UpdatePrivacy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req privacy.UpdatePrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pref, err := h.privacyUseCase.Update(c.Request.Context(), userID, &req)
	if err != nil {
		failure(c, err, "failed to update privacy settings")
		return
	}

	c.JSON(http.StatusOK, pref)
}

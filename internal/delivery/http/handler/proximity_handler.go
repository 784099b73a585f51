package handler

import (
	"net/http"

	"github.com/gdugdh24/proximity-backend/internal/usecase/crossedpath"
	"github.com/gdugdh24/proximity-backend/internal/usecase/mapcard"
	"github.com/gin-gonic/gin"
)

type ProximityHandler struct {
	crossedPathUseCase *crossedpath.CrossedPathUseCase
	mapCardUseCase     *mapcard.MapCardUseCase
}

func NewProximityHandler(
	crossedPathUseCase *crossedpath.CrossedPathUseCase,
	mapCardUseCase *mapcard.MapCardUseCase,
) *ProximityHandler {
	return &ProximityHandler{
		crossedPathUseCase: crossedPathUseCase,
		mapCardUseCase:     mapCardUseCase,
	}
}

// CrossedPathsResponse wraps the crossed paths list
type CrossedPathsResponse struct {
	CrossedPaths []crossedpath.CrossedPathView `json:"crossed_paths"`
}

// GetCrossedPaths handles GET /crossed-paths
// @Summary People you crossed paths with
// @Tags proximity
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CrossedPathsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /crossed-paths [get]
func (h *ProximityHandler) GetCrossedPaths(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.crossedPathUseCase.GetCrossedPaths(c.Request.Context(), userID)
	if err != nil {
		failure(c, err, "failed to get crossed paths")
		return
	}

	c.JSON(http.StatusOK, CrossedPathsResponse{CrossedPaths: views})
}

// GetMapCard handles GET /map
// @Summary Aggregated map of people around
// @Tags proximity
// @Security BearerAuth
// @Produce json
// @Success 200 {object} mapcard.MapCard
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /map [get]
func (h *ProximityHandler) GetMapCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.mapCardUseCase.GetMapCard(c.Request.Context(), userID)
	if err != nil {
		failure(c, err, "failed to get map")
		return
	}

	c.JSON(http.StatusOK, card)
}

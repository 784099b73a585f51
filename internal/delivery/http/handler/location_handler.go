package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/usecase/location"
	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationUseCase *location.LocationUseCase
	now             func() time.Time
}

func NewLocationHandler(locationUseCase *location.LocationUseCase) *LocationHandler {
	return &LocationHandler{
		locationUseCase: locationUseCase,
		now:             time.Now,
	}
}

// UpdateLocation handles POST /location
// @Summary Report current location
// @Description Stores a coarse, noised location. Declines are returned with accepted=false.
// @Tags location
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body location.UpdateLocationRequest true "Raw coordinates"
// @Success 200 {object} location.UpdateResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} location.UpdateResult
// @Failure 503 {object} ErrorResponse
// @Router /location [post]
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req location.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.locationUseCase.UpdateLocation(c.Request.Context(), userID, *req.Latitude, *req.Longitude)
	if err != nil {
		failure(c, err, "failed to update location")
		return
	}

	if res.Reason == domain.DeclineTooFrequent {
		if res.NextAllowedAt != nil {
			wait := math.Ceil(res.NextAllowedAt.Sub(h.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(int(math.Max(wait, 1))))
		}
		c.JSON(http.StatusTooManyRequests, res)
		return
	}

	c.JSON(http.StatusOK, res)
}

// NearbyResponse wraps the nearby list
type NearbyResponse struct {
	Users []location.NearbyUser `json:"users"`
}

// GetNearby handles GET /location/nearby
// @Summary Nearby users
// @Tags location
// @Security BearerAuth
// @Produce json
// @Param radius_km query number false "Search radius, 0.5 to 50"
// @Param age_min query int false "Minimum age"
// @Param age_max query int false "Maximum age"
// @Param gender query string false "male or female"
// @Success 200 {object} NearbyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /location/nearby [get]
func (h *LocationHandler) GetNearby(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req location.NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	users, err := h.locationUseCase.GetNearbyUsers(c.Request.Context(), userID, &req)
	if err != nil {
		failure(c, err, "failed to get nearby users")
		return
	}

	c.JSON(http.StatusOK, NearbyResponse{Users: users})
}

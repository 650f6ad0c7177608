package api

import (
	"errors"
	"net/http"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

var statusByCode = map[string]int{
	"NOT_FOUND":                        http.StatusNotFound,
	"FORBIDDEN":                        http.StatusForbidden,
	"ITINERARY_VERSION_CONFLICT":       http.StatusConflict,
	"INVALID_STATUS_TRANSITION":        http.StatusConflict,
	"BOOKING_NOT_EDITABLE":             http.StatusConflict,
	"BOOKING_COLLABORATOR_NOT_ALLOWED": http.StatusConflict,
	"ITINERARY_NOT_CONFIRMED":          http.StatusConflict,
	"CANNOT_SUBMIT":                    http.StatusConflict,
	"CANNOT_CANCEL":                    http.StatusConflict,
	"CANNOT_DELETE_NON_DRAFT":          http.StatusConflict,
	"CANNOT_ADD_OWNER":                 http.StatusConflict,
	"BOOKING_ACTIVITIES_REQUIRED":      http.StatusBadRequest,
}

// respondError translates domain error codes into transport statuses. The
// services never format user-facing messages beyond the code's description.
func respondError(c *gin.Context, err error) {
	var coded *domain.Error
	if errors.As(err, &coded) {
		status, ok := statusByCode[coded.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": coded.Code, "message": coded.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": err.Error()})
}

// identity reads the caller identity the auth middleware (out of scope here)
// injects. Requests without it are rejected before reaching the services.
func identity(c *gin.Context) (string, domain.UserRole, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED", "message": "missing user identity"})
		return "", "", false
	}
	role := domain.UserRole(c.GetHeader("X-User-Role"))
	if role == "" {
		role = domain.UserRoleUser
	}
	return userID, role, true
}

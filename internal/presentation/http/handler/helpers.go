package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-api/internal/presentation/http/middleware"
)

// RoleManager may see every cashier's sales.
const RoleManager = "manager"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserName extracts the cashier's display name from the Gin context
func GetUserName(c *gin.Context) string {
	return c.GetString(middleware.ContextUserName)
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, _ := c.Get(middleware.ContextUserRoles)
	list, _ := roles.([]string)
	return list
}

// IsManager checks if the user has the manager role
func IsManager(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == RoleManager {
			return true
		}
	}
	return false
}

// ownerScope returns nil for managers and the caller's id otherwise
func ownerScope(c *gin.Context) *uuid.UUID {
	if IsManager(c) {
		return nil
	}
	return GetUserID(c)
}

// requireUser writes 401 and returns false when no user is authenticated
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// pathUUID parses a UUID path parameter, writing 400 on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

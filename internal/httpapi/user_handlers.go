package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers returns every user except the caller, for assignment pickers.
func (h Handlers) ListUsers(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	list, err := h.Users.ListOthers(c.Request.Context(), id.UserID)
	if err != nil {
		internalError(c, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) Me(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, "load profile failed", err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// AdminListUsers returns every account. RBAC: admin.
func (h Handlers) AdminListUsers(c *gin.Context) {
	list, err := h.Users.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, "admin list users failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": list})
}

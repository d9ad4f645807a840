package httpapi

import (
	"net/http"
	"strconv"

	"taskboard/internal/tasks"

	"github.com/gin-gonic/gin"
)

func (h Handlers) CreateTask(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var in tasks.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	t, err := h.Tasks.Create(c.Request.Context(), id.UserID, in)
	if err != nil {
		respondError(c, "create task failed", err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task created successfully", "task": t})
}

// ListTasks serves GET /tasks?type=all|created|assigned&search=&page=&limit=.
func (h Handlers) ListTasks(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	scope, err := tasks.ParseScope(c.Query("type"))
	if err != nil {
		respondError(c, "list tasks failed", err, msgTaskNotFound)
		return
	}

	res, err := h.Tasks.List(c.Request.Context(), tasks.ListQuery{
		OwnerID: id.UserID,
		Scope:   scope,
		Search:  c.Query("search"),
		Page:    queryInt(c, "page"),
		Limit:   queryInt(c, "limit"),
	})
	if err != nil {
		internalError(c, "list tasks failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       res.Tasks,
		"totalCount": res.TotalCount,
		"results":    len(res.Tasks),
	})
}

// queryInt reads a non-negative integer parameter; anything else is 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// UpdateTask applies a partial update. Only the creator may update.
func (h Handlers) UpdateTask(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var p tasks.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	t, err := h.Tasks.Update(c.Request.Context(), id.UserID, c.Param("slug"), p)
	if err != nil {
		respondError(c, "update task failed", err, msgTaskNotAllowed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task updated", "task": t})
}

func (h Handlers) DeleteTask(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := h.Tasks.Delete(c.Request.Context(), id.UserID, c.Param("slug")); err != nil {
		respondError(c, "delete task failed", err, msgTaskNotAllowed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}

type completeRequest struct {
	TaskID string `json:"taskId"`
}

// CompleteTask marks a task completed. The creator or the assignee may complete it.
func (h Handlers) CompleteTask(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	t, err := h.Tasks.Complete(c.Request.Context(), id.UserID, req.TaskID)
	if err != nil {
		respondError(c, "complete task failed", err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task marked as completed", "task": t})
}

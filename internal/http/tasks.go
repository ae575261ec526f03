package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tasktrackr/internal/authz"
	"tasktrackr/internal/domain"
	"tasktrackr/internal/service"
	"tasktrackr/internal/storage"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
	TeamID      string     `json:"team_id" binding:"required"`
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.TaskStatusTodo
	if req.Status != "" {
		parsed, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status = parsed
	}

	identity := identityFrom(c)
	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		TeamID:      req.TeamID,
		CreatorID:   identity.UserID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(*task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
	TeamID      *string    `json:"team_id"`
}

func (h *Handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		TeamID:      req.TeamID,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.Status = &status
	}

	identity := identityFrom(c)
	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), identity.UserID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateTaskStatus(c *gin.Context) {
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := identityFrom(c)
	task, err := h.tasks.UpdateStatus(c.Request.Context(), c.Param("id"), identity.UserID, status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) listTeamTasks(c *gin.Context) {
	tasks, err := h.tasks.ListByTeam(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksToResponse(tasks))
}

func (h *Handler) listMyTeamTasks(c *gin.Context) {
	identity := identityFrom(c)
	tasks, err := h.tasks.ListForUserTeam(c.Request.Context(), identity.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksToResponse(tasks))
}

func (h *Handler) uploadAttachment(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attachment storage not configured"})
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	identity := identityFrom(c)
	if d := authz.AuthorizeTaskMutate(task, identity.UserID); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	location, err := h.attachments.Upload(c.Request.Context(), task.ID, fileHeader.Filename, file)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": location})
}

func (h *Handler) listAttachments(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attachment storage not configured"})
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	attachments, err := h.attachments.List(c.Request.Context(), task.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		resp[i] = attachmentToResponse(attachments[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteAttachments(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attachment storage not configured"})
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	identity := identityFrom(c)
	if d := authz.AuthorizeTaskMutate(task, identity.UserID); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	if err := h.attachments.DeleteAll(c.Request.Context(), task.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": task.ID})
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date,omitempty"`
	CreatorID   string  `json:"creator_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	TeamID      string  `json:"team_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func taskToResponse(task domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		TeamID:      task.TeamID,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		v := task.DueDate.Format(time.RFC3339)
		resp.DueDate = &v
	}
	return resp
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	return resp
}

type AttachmentResponse struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func attachmentToResponse(att storage.Attachment) AttachmentResponse {
	resp := AttachmentResponse{
		Key:  att.Key,
		Name: att.Name,
		Size: att.Size,
	}
	if att.LastModified != nil && !att.LastModified.IsZero() {
		v := att.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

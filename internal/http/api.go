package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasktrackr/internal/auth"
	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
	"tasktrackr/internal/service"
	"tasktrackr/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth        service.AuthService
	users       service.UserService
	teams       service.TeamService
	tasks       service.TaskService
	attachments storage.Service
	codec       *auth.TokenCodec
	logger      *logrus.Logger
}

func NewHandler(
	authSvc service.AuthService,
	users service.UserService,
	teams service.TeamService,
	tasks service.TaskService,
	attachments storage.Service,
	codec *auth.TokenCodec,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		auth:        authSvc,
		users:       users,
		teams:       teams,
		tasks:       tasks,
		attachments: attachments,
		codec:       codec,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/auth/login", h.login)
	router.POST("/users", h.registerUser)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authed := router.Group("/", RequireAuth(h.codec))
	{
		authed.PUT("/users/:id", h.updateUser)
		authed.GET("/teams/users/:userId", h.getUserTeam)

		authed.POST("/tasks", h.createTask)
		authed.GET("/tasks/my-team", h.listMyTeamTasks)
		authed.PUT("/tasks/:id", h.updateTask)
		authed.PUT("/tasks/:id/status", h.updateTaskStatus)
		authed.POST("/tasks/:id/attachments", h.uploadAttachment)
		authed.GET("/tasks/:id/attachments", h.listAttachments)
		authed.DELETE("/tasks/:id/attachments", h.deleteAttachments)
	}

	admin := router.Group("/", RequireAuth(h.codec), RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/users", h.listUsers)
		admin.DELETE("/users/:id", h.deleteUser)
		admin.PATCH("/users/:id/role", h.updateUserRole)

		admin.POST("/teams", h.createTeam)
		admin.GET("/teams", h.listTeams)
		admin.PUT("/teams/:id", h.updateTeam)
		admin.DELETE("/teams/:id", h.deleteTeam)
		admin.POST("/teams/:id/members/:userId", h.addTeamMember)
		admin.DELETE("/teams/:id/members/:userId", h.removeTeamMember)

		admin.GET("/tasks/team/:teamId", h.listTeamTasks)
		admin.DELETE("/tasks/:id", h.deleteTask)
	}
}

// writeError maps service errors onto the response taxonomy: 401 for bad
// credentials, 403 with the engine's reason for denials, 404 for missing
// entities, 400 for rejected input, 500 (logged, generic body) for the rest.
func (h *Handler) writeError(c *gin.Context, err error) {
	var forbidden *service.ForbiddenError
	switch {
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": forbidden.Reason})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoTeam):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrTeamExists),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		h.logger.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   result.Token,
		"user_id": result.UserID,
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(*user))
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Username *string `json:"username"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) updateUserRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.SetRole(c.Request.Context(), c.Param("id"), role); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
}

type createTeamRequest struct {
	Name        string   `json:"name" binding:"required"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	LeadID      *string  `json:"lead_id"`
	MemberIDs   []string `json:"member_ids"`
}

func (h *Handler) createTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := identityFrom(c)
	team, err := h.teams.Create(c.Request.Context(), service.CreateTeamInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		CreatorID:   identity.UserID,
		LeadID:      req.LeadID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, teamToResponse(*team))
}

func (h *Handler) listTeams(c *gin.Context) {
	teams, err := h.teams.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]TeamResponse, len(teams))
	for i := range teams {
		resp[i] = teamToResponse(teams[i])
	}
	c.JSON(http.StatusOK, resp)
}

type updateTeamRequest struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	LeadID      *string  `json:"lead_id"`
	MemberIDs   []string `json:"member_ids"`
}

func (h *Handler) updateTeam(c *gin.Context) {
	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teams.Update(c.Request.Context(), c.Param("id"), service.UpdateTeamInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		LeadID:      req.LeadID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamToResponse(*team))
}

func (h *Handler) deleteTeam(c *gin.Context) {
	if err := h.teams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) addTeamMember(c *gin.Context) {
	team, err := h.teams.AddMember(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamToResponse(*team))
}

func (h *Handler) removeTeamMember(c *gin.Context) {
	team, err := h.teams.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamToResponse(*team))
}

func (h *Handler) getUserTeam(c *gin.Context) {
	team, err := h.teams.GetUserTeam(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamToResponse(*team))
}

type UserResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	TeamID   *string `json:"team_id,omitempty"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
		TeamID:   user.TeamID,
	}
}

type TeamResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	CreatorID   string         `json:"creator_id"`
	LeadID      *string        `json:"lead_id,omitempty"`
	Members     []UserResponse `json:"members"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

func teamToResponse(team domain.Team) TeamResponse {
	resp := TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Code:        team.Code,
		Description: team.Description,
		CreatorID:   team.CreatorID,
		LeadID:      team.LeadID,
		Members:     make([]UserResponse, len(team.Members)),
		CreatedAt:   team.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   team.UpdatedAt.Format(time.RFC3339),
	}
	for i := range team.Members {
		resp.Members[i] = userToResponse(team.Members[i])
	}
	return resp
}

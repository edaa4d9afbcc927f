package api

import (
	"net/http"

	"structiv/internal/models"
	"structiv/internal/service"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	id, err := s.deps.Users.Register(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err, "Server error during registration")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := s.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err, "Server error during login")
		return
	}

	body := gin.H{"message": "Login successful", "user": res.User}
	if res.Token != "" {
		body["token"] = res.Token
	}
	c.JSON(http.StatusOK, body)
}

type changePasswordRequest struct {
	UserID          int64  `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *HTTPServer) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := s.deps.Users.ChangePassword(c.Request.Context(), s.actor(c), req.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.respondError(c, err, "Server error during password change")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (s *HTTPServer) handleGetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := s.deps.Users.GetUser(c.Request.Context(), s.actor(c), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}

	user, err := s.deps.Users.UpdateProfile(c.Request.Context(), s.actor(c), id, patch)
	if err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (s *HTTPServer) handleListUsers(c *gin.Context) {
	users, err := s.deps.Users.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *HTTPServer) handleCreateUser(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.deps.Users.CreateUser(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "userId": user.ID})
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/apperr"
	"employeeManagement/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func sessionBody(message string, s *service.Session) gin.H {
	return gin.H{
		"message":    message,
		"user":       s.Profile,
		"token":      s.Token,
		"expires_at": s.ExpiresAt.UTC(),
	}
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("Username and password are required"))
		return
	}
	s, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionBody("Login successful", s))
}

func (h *handler) signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("All fields are required"))
		return
	}
	s, err := h.Auth.Signup(c.Request.Context(), req, principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionBody("User registered successfully", s))
}

func (h *handler) logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), principal(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *handler) me(c *gin.Context) {
	p, err := h.Auth.Me(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

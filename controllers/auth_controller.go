package controllers

import (
	"net/http"

	"caltrack/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	assistant *services.AssistantService
}

func NewAuthController(assistant *services.AssistantService) *AuthController {
	return &AuthController{assistant: assistant}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.RegisterUser(input.Email, input.Password, input.FullName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful"})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := services.AuthenticateUser(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

// Logout drops the user's assistant session. The JWT itself just expires;
// the transcript must not survive the login session.
func (a *AuthController) Logout(c *gin.Context) {
	userID := c.GetUint("userID")
	a.assistant.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

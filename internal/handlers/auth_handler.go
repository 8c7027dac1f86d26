package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/services"
	"expensetracker/internal/uuid"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	DisplayName string `json:"displayName" binding:"required,notblank,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries the ID token returned by Google Sign-In.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse represents the caller's profile
type ProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	HasPassword  bool      `json:"hasPassword"`
	GoogleLinked bool      `json:"googleLinked"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email, display name and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     200 {object} MessageResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate email"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	if err := h.authService.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with email and password and get a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} TokenResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid input or credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// GoogleLogin handles sign-in with a Google ID token
// @Summary     Login with Google
// @Description Exchange a Google ID token for a session token, creating or linking the user as needed
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleLoginRequest true "Google ID token"
// @Success     200 {object} TokenResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid Google token"
// @Failure     409 {object} ErrorResponse "Google account could not be linked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/google-login [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	token, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile and linked sign-in methods
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ProfileResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		HasPassword:  user.HasPassword(),
		GoogleLinked: user.HasGoogleLink(),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/repository"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of handlers.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, authMiddlewares ...gin.HandlerFunc) {
	registerChain := append(append([]gin.HandlerFunc{}, authMiddlewares...), h.register)
	loginChain := append(append([]gin.HandlerFunc{}, authMiddlewares...), h.login)

	r.POST("/register", registerChain...)
	r.POST("/login", loginChain...)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	token, account, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:            req.Email,
		Username:         req.Username,
		Password:         req.Password,
		Role:             req.Role,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownRole, Status: http.StatusBadRequest, Message: "unknown role"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet strength requirements"},
			{Err: usecase.ErrMissingOrganizationName, Status: http.StatusBadRequest, Message: "organization name is required"},
			{Err: repository.ErrDuplicateEmail, Status: http.StatusConflict, Message: "email already registered"},
			{Err: repository.ErrDuplicateUsername, Status: http.StatusConflict, Message: "username already taken"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:   token,
		Account: toAccountSummary(*account),
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	token, account, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:   token,
		Account: toAccountSummary(*account),
	})
}

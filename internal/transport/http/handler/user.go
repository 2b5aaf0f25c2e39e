package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geocatch/internal/app"
	"geocatch/internal/transport/http/middleware"
	"geocatch/internal/transport/http/response"
)

type UserHandler struct {
	accountService *app.AccountService
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=255"`
}

// AuthenticateRequest accepts the email in place of the username.
type AuthenticateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=255"`
}

func NewUserHandler(accountService *app.AccountService) *UserHandler {
	return &UserHandler{accountService: accountService}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUsernameExists):
			response.Error(c, http.StatusBadRequest, response.CodeUsernameExists, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, response.CodeEmailExists, err.Error())
		default:
			log.Printf("register user %q failed: %v", req.Username, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "register failed")
		}
		return
	}

	response.Created(c, "user created successfully", user.ID)
}

func (h *UserHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}
	if login == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "username or email is required")
		return
	}

	result, err := h.accountService.Authenticate(c.Request.Context(), app.LoginInput{
		Login:    login,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			log.Printf("authenticate %q failed: %v", login, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	response.JSON(c, http.StatusOK, response.MessageResponse{
		Message: "login successful",
		Token:   result.Token,
	})
}

// Logout only acknowledges the request. Tokens are self-contained and stay
// valid until they expire; the client is expected to discard its copy.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	log.Printf("user %d logged out", userID)
	response.Message(c, http.StatusOK, "logout successful")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, app.ErrUserNotFound.Error())
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	err = h.accountService.UpdateProfile(c.Request.Context(), app.UpdateProfileInput{
		ActorID:  actorID,
		UserID:   uint(userID),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, response.CodeEmailExists, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			log.Printf("update user %d failed: %v", userID, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update user failed")
		}
		return
	}

	response.Message(c, http.StatusOK, "user updated successfully")
}

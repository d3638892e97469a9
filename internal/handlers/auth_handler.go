package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/services"
)

func Register(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := as.Register(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(user, "User registered successfully"))
	}
}

func Login(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FCMToken string `json:"fcm_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("email and password are required"))
			return
		}

		result, err := as.Login(c.Request.Context(), req.Email, req.Password, req.FCMToken)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountInactive):
				c.JSON(http.StatusForbidden, models.ErrorResponse("Your account has expired. Please contact support."))
			case errors.Is(err, services.ErrInvalidCredentials):
				c.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid credentials"))
			default:
				respondError(c, err)
			}
			return
		}

		c.SetCookie("access_token", result.Token, 86400, "/", "", false, true)
		c.JSON(http.StatusOK, models.SuccessResponse(result, "Login successful"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, models.MessageResponse("Logged out successfully"))
	}
}

func ForgotPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if req.Email == "" {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("email is required"))
			return
		}

		if err := as.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Verification code sent to your email"))
	}
}

func ResetPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email                string `json:"email"`
			Token                string `json:"token"`
			Password             string `json:"password"`
			PasswordConfirmation string `json:"password_confirmation"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		err := as.ResetPassword(c.Request.Context(), req.Email, req.Token, req.Password, req.PasswordConfirmation)
		if err != nil {
			if errors.Is(err, services.ErrInvalidResetToken) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid or expired token"))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Password has been reset successfully"))
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/helpers"
	"github.com/konvff/taxi-api/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account expired or inactive")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
)

// ResetMailer delivers the password-reset code; failures are logged,
// never surfaced.
type ResetMailer interface {
	SendPasswordResetCode(email, code string) error
}

type AuthService struct {
	users  models.UserRepo
	mailer ResetMailer
	logger *slog.Logger
}

func NewAuthService(users models.UserRepo, mailer ResetMailer, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, mailer: mailer, logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Location string `json:"location" validate:"required"`
	Category string `json:"category" validate:"omitempty,max=255"`
	CarName  string `json:"car_name" validate:"omitempty,max=255"`
	CarModel string `json:"car_model" validate:"omitempty,max=255"`
	CarColor string `json:"car_color" validate:"omitempty,max=255"`
	PhotoURL string `json:"photo_url" validate:"omitempty,max=255"`
}

func (as *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hash),
		Role:     req.Role,
		Category: req.Category,
		Location: req.Location,
		CarName:  req.CarName,
		CarModel: req.CarModel,
		CarColor: req.CarColor,
		PhotoURL: req.PhotoURL,
	}
	return as.users.CreateUser(ctx, user)
}

type LoginResult struct {
	User     *models.User `json:"user"`
	Role     string       `json:"role"`
	Category string       `json:"category"`
	FCMToken *string      `json:"fcm_token"`
	Token    string       `json:"token"`
	AdminID  *uuid.UUID   `json:"admin_id"`
}

// Login checks credentials, captures the device's FCM token and issues
// a bearer token. Accounts with status 1 are rejected before the
// password is checked, matching the original behavior.
func (as *AuthService) Login(ctx context.Context, email, password, fcmToken string) (*LoginResult, error) {
	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrAccountInactive
		}
		return nil, err
	}
	if user.Status == 1 {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if fcmToken != "" {
		if err := as.users.SetFCMToken(ctx, user.ID, fcmToken); err != nil {
			return nil, err
		}
		user.FCMToken = &fcmToken
	}

	token, err := helpers.GenerateToken(&helpers.Claims{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		User:     user,
		Role:     user.Role,
		Category: user.Category,
		FCMToken: user.FCMToken,
		Token:    token,
	}

	// Mobile clients address their pushes to the first admin.
	if admin, err := as.users.FirstAdmin(ctx); err == nil {
		result.AdminID = &admin.ID
	}

	return result, nil
}

// ForgotPassword stores an 8-digit code and mails it. A mail failure is
// logged but does not fail the request; the code stays valid.
func (as *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := as.users.GetUserByEmail(ctx, email); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("email", "no account with this email")
		}
		return err
	}

	code := helpers.GenerateResetCode()
	if err := as.users.SavePasswordReset(ctx, email, code); err != nil {
		return err
	}

	if as.mailer != nil {
		if err := as.mailer.SendPasswordResetCode(email, code); err != nil {
			as.logger.Error("Failed to send password reset mail", "email", email, "error", err)
		}
	}
	return nil
}

func (as *AuthService) ResetPassword(ctx context.Context, email, code, password, confirmation string) error {
	if len(password) < 6 {
		return apperrors.NewValidation("password", "must be at least 6 characters")
	}
	if password != confirmation {
		return apperrors.NewValidation("password", "confirmation does not match")
	}

	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("email", "no account with this email")
		}
		return err
	}

	ok, err := as.users.CheckPasswordReset(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := as.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	return as.users.DeletePasswordReset(ctx, email)
}

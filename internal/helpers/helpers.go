package helpers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const UploadFolder = "taxi-uploads"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func GenerateToken(claims *Claims) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	return hasLower && hasNumber
}

// GenerateResetCode returns an 8-digit numeric verification code.
func GenerateResetCode() string {
	return fmt.Sprintf("%08d", 10000000+rand.Intn(90000000))
}

// oneDecimal matches ratings with at most one decimal place.
var oneDecimal = regexp.MustCompile(`^\d+(\.\d)?$`)

// IsOneDecimal reports whether the rating string uses at most one
// decimal place, e.g. "4.5" but not "5.25".
func IsOneDecimal(rating string) bool {
	return oneDecimal.MatchString(strings.TrimSpace(rating))
}

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.New("empty image path")
	}

	uploadResult, err := cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
		Folder: UploadFolder,
		Tags:   []string{"taxi-app"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %v", filePath, err)
	}
	return uploadResult.SecureURL, nil
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/shared/response"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken = apperror.New("INVALID_TOKEN", "Invalid or malformed token", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
)

func abort(c *gin.Context, err *apperror.AppError) {
	response.AbortError(c, err.HTTPStatus, err.Code, err.Message, err.Details)
}

// claimString accepts string and numeric claims; employee ids are often
// issued as numbers.
func claimString(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// AuthMiddleware validates the bearer token and stores the caller identity.
// The raw token is kept so engine calls are made on the operator's behalf.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abort(c, ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, ErrTokenExpired)
				return
			}
			abort(c, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, ErrInvalidToken)
			return
		}

		userID := claimString(claims, "user_id")
		if userID == "" {
			abort(c, ErrInvalidToken.WithMessage("User ID not found in token"))
			return
		}

		c.Set(workflow.KeyUserID, userID)
		c.Set(workflow.KeyEmployeeID, claimString(claims, "employee_id"))
		c.Set(workflow.KeyRole, strings.ToUpper(claimString(claims, "role")))
		c.Set(workflow.KeyAuthToken, tokenString)

		c.Next()
	}
}

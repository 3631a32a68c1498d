package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userKey = "user"

// TokenIssuer signs and verifies HS256 access tokens whose subject is a user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a signed JWT for a given user id
func (t *TokenIssuer) GenerateToken(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseToken verifies the signature and expiry and returns the user id.
func (t *TokenIssuer) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return "", apperr.Unauthorized("Invalid or expired token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", apperr.Unauthorized("Invalid token payload")
	}
	return claims.Subject, nil
}

// UserFinder loads the account a token refers to.
type UserFinder interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
}

// AuthRequired validates the bearer token, loads the user and injects it into context
func AuthRequired(issuer *TokenIssuer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		userID, err := issuer.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
			return
		}

		user, err := users.FindUser(c.Request.Context(), userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

var errNoUser = errors.New("no authenticated user in context")

// CurrentUser extracts the authenticated user from context
func CurrentUser(c *gin.Context) (*models.User, error) {
	val, ok := c.Get(userKey)
	if !ok {
		return nil, errNoUser
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil, errNoUser
	}
	return user, nil
}

package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PasswordMinLen       = 8
	PasswordMaxLen       = 128
	RestaurantNameMinLen = 2
	RestaurantNameMaxLen = 25

	passwordSpecials = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?`~\\"
)

// PasswordStrong reports whether pw has an uppercase letter, a lowercase
// letter, a digit and a special character.
func PasswordStrong(pw string) bool {
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenGenerator issues access tokens for a user id.
type TokenGenerator interface {
	GenerateToken(userID string) (string, error)
}

// AuthService registers and authenticates restaurant accounts.
type AuthService struct {
	db     *gorm.DB
	tokens TokenGenerator
	cost   int
}

func NewAuthService(db *gorm.DB, tokens TokenGenerator) *AuthService {
	return &AuthService{db: db, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy of s hashing passwords at cost. Tests use
// bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	c := *s
	c.cost = cost
	return &c
}

type RegisterInput struct {
	Email          string
	Password       string
	RestaurantName string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if n := utf8.RuneCountInString(in.Password); n < PasswordMinLen || n > PasswordMaxLen {
		return nil, apperr.Validation("Password must be between 8 and 128 characters")
	}
	if !PasswordStrong(in.Password) {
		return nil, apperr.Validation("Password must include uppercase, lowercase, number, and special character")
	}
	name := strings.TrimSpace(in.RestaurantName)
	if n := utf8.RuneCountInString(name); n < RestaurantNameMinLen {
		return nil, apperr.Validation("Restaurant name must be at least 2 characters")
	} else if n > RestaurantNameMaxLen {
		return nil, apperr.Validation("Restaurant name must be 25 characters or fewer")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("Email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   string(hash),
		RestaurantName: name,
		TemplateID:     models.DefaultTemplateID,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, translateWrite(err, "Email already registered")
	}
	return user, nil
}

// Login checks credentials and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if isNotFound(err) {
		return "", nil, apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// FindUser loads a user by id.
func (s *AuthService) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// handlers/auth.go - Registration, login, context switching
package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamhq/database"
	"teamhq/middleware"
	"teamhq/models"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Subdomain string `json:"subdomain,omitempty"`
}

type SwitchContextRequest struct {
	Subdomain string `json:"subdomain"`
}

type AuthResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	User    UserInfo  `json:"user,omitempty"`
	Team    *TeamInfo `json:"team,omitempty"`
}

type UserInfo struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	IsGlobalAdmin bool   `json:"is_global_admin"`
}

type TeamInfo struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Subdomain string            `json:"subdomain"`
	Role      models.Role       `json:"role"`
	Type      models.MemberType `json:"member_type"`
}

// Register creates a user account
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return models.ErrBadRequest("email and password required")
	}
	if len(req.Password) < 8 {
		return models.ErrBadRequest("password must be at least 8 characters")
	}

	// Registration abuse is gated per email on top of the per-IP gate
	if err := limiter.Check(middleware.DimensionValue{Dimension: middleware.DimensionEmail, Identifier: email}); err != nil {
		return err
	}

	db := database.GetDB()

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := db.Create(&user).Error; err != nil {
		// Duplicate signup racing past the existence check above
		if database.IsUniqueViolation(err) {
			return models.ErrConflict("email already registered")
		}
		return err
	}

	token, err := tokenIssuer.Issue(&user, nil, nil)
	if err != nil {
		return err
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user),
	})
}

// Login authenticates and selects the active team context
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return models.ErrBadRequest("email and password required")
	}

	db := database.GetDB()

	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrUnauthenticated("invalid credentials")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return models.ErrUnauthenticated("invalid credentials")
	}

	db.Model(&user).Update("last_login", time.Now().UTC())

	membership, team, err := resolverService.LoginContext(&user, req.Subdomain)
	if err != nil {
		return err
	}

	token, err := tokenIssuer.Issue(&user, membership, team)
	if err != nil {
		return err
	}

	resp := AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(&user),
	}
	if membership != nil && team != nil {
		resp.Team = &TeamInfo{
			ID:        team.ID,
			Name:      team.Name,
			Subdomain: team.Subdomain,
			Role:      membership.Role,
			Type:      membership.MemberType,
		}
	}
	return c.JSON(resp)
}

// SwitchContext issues a fresh token scoped to another team the caller
// belongs to
// POST /api/auth/switch-context
func SwitchContext(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)

	var req SwitchContextRequest
	if err := c.BodyParser(&req); err != nil || req.Subdomain == "" {
		return models.ErrBadRequest("subdomain required")
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return models.ErrUnauthenticated("account no longer exists")
	}

	token, team, err := resolverService.SwitchContext(&user, req.Subdomain)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"team": fiber.Map{
			"id":        team.ID,
			"name":      team.Name,
			"subdomain": team.Subdomain,
		},
	})
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		IsGlobalAdmin: user.IsGlobalAdmin,
	}
}

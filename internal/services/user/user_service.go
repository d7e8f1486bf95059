package user

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// UserService handles registration, credential login, session revocation
// and profile procedures.
type UserService struct {
	cfg          *config.Config
	jwtService   *auth.JWTService
	users        store.UserStore
	sessions     store.SessionStore
	universities store.UniversityStore
}

func NewUserService(cfg *config.Config, jwtService *auth.JWTService, users store.UserStore,
	sessions store.SessionStore, universities store.UniversityStore) *UserService {
	return &UserService{
		cfg:          cfg,
		jwtService:   jwtService,
		users:        users,
		sessions:     sessions,
		universities: universities,
	}
}

type registerRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	UniversityID   string  `json:"university_id" validate:"required,uuid"`
	Major          *string `json:"major"`
	GraduationYear *int    `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
	DormLocation   *string `json:"dorm_location"`
	PhoneNumber    *string `json:"phone_number"`
}

// Register creates a user and its credentials account in one transaction.
// The email must belong to the chosen university's domain.
func (s *UserService) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	universityID, err := uuid.Parse(req.UniversityID)
	if err != nil {
		return apperr.Validation("invalid university id")
	}

	university, err := s.universities.GetByID(c.Context(), universityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("university not found")
		}
		return apperr.Internal(err)
	}
	if !university.IsActive {
		return apperr.Validation("university is not accepting registrations")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, "@"+university.EmailDomain) {
		return apperr.Validation("email does not match the university domain")
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.New(),
		UniversityID:    university.ID,
		Email:           email,
		Name:            req.Name,
		Major:           req.Major,
		GraduationYear:  req.GraduationYear,
		DormLocation:    req.DormLocation,
		PhoneNumber:     req.PhoneNumber,
		ReputationScore: models.DefaultReputation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	account := &models.Account{
		ID:           uuid.New(),
		UserID:       user.ID,
		ProviderID:   models.ProviderCredentials,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	if err := s.users.CreateWithAccount(c.Context(), user, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("email is already registered")
		}
		return apperr.Internal(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user.Ref(),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token backed by a session row.
// Every failure answers with the same message, so callers cannot probe
// which emails are registered.
func (s *UserService) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	failed := apperr.Unauthorized("invalid email or password")

	user, err := s.users.GetByEmail(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failed
		}
		return apperr.Internal(err)
	}

	account, err := s.users.AccountFor(c.Context(), user.ID, models.ProviderCredentials)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failed
		}
		return apperr.Internal(err)
	}

	if !auth.CheckPasswordHash(req.Password, account.PasswordHash) {
		return failed
	}

	token, tokenID, expiresAt, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(c.Context(), session); err != nil {
		return apperr.Internal(err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
		"user":       user.Ref(),
	})
}

// Logout deletes the session row of the presented token.
func (s *UserService) Logout(c fiber.Ctx) error {
	err := s.sessions.DeleteByTokenID(c.Context(), middleware.TokenID(c))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the caller's full profile.
func (s *UserService) Me(c fiber.Ctx) error {
	user, err := s.users.GetByID(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

type updateMeRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Major           *string `json:"major"`
	GraduationYear  *int    `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
	DormLocation    *string `json:"dorm_location"`
	PhoneNumber     *string `json:"phone_number"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,url"`
}

// UpdateMe applies a partial profile update. Email, reputation and trade
// counters are not reachable from here.
func (s *UserService) UpdateMe(c fiber.Ctx) error {
	var req updateMeRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, err := s.users.UpdateProfile(c.Context(), middleware.UserID(c), models.ProfileUpdate{
		Name:            req.Name,
		Major:           req.Major,
		GraduationYear:  req.GraduationYear,
		DormLocation:    req.DormLocation,
		PhoneNumber:     req.PhoneNumber,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

type getByIDRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// GetByID returns another user's restricted public profile.
func (s *UserService) GetByID(c fiber.Ctx) error {
	var req getByIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	id, err := uuid.Parse(req.UserID)
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	user, err := s.users.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user.Public()})
}

package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amiraziz/souq-backend/pkg/auth"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/security"
)

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo     *Repository
	Logger   *logger.Logger
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

// Service owns account registration and authentication. The caller wires the
// sign-in result into the cart session's identity merge.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (AuthDTO, error)
	Login(ctx context.Context, input LoginInput) (AuthDTO, error)
	Get(ctx context.Context, id uuid.UUID) (UserDTO, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
}

type service struct {
	repo     *Repository
	logger   *logger.Logger
	jwt      config.JWTConfig
	password config.PasswordConfig
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{
		repo:     params.Repo,
		logger:   params.Logger,
		jwt:      params.JWT,
		password: params.Password,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (AuthDTO, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return AuthDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < 8 {
		return AuthDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return AuthDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return AuthDTO{}, err
	}

	user := &models.User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      hash,
		FullName:          strings.TrimSpace(input.FullName),
		Role:              enums.UserRoleCustomer,
		PreferredLocale:   input.PreferredLocale,
		PreferredCurrency: input.PreferredCurrency,
	}
	if user.PreferredLocale == "" {
		user.PreferredLocale = enums.LocaleEnglish
	}
	if user.PreferredCurrency == "" {
		user.PreferredCurrency = enums.CurrencyUSD
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return AuthDTO{}, err
	}

	s.logger.Info(s.logger.WithUserID(ctx, user.ID.String()), "account registered")
	return s.issue(*user)
}

func (s *service) Login(ctx context.Context, input LoginInput) (AuthDTO, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		// A wrong email and a wrong password look identical to the caller.
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return AuthDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return AuthDTO{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return AuthDTO{}, err
	}
	if !ok {
		return AuthDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	if user.Banned {
		return AuthDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")
	}

	s.logger.Info(s.logger.WithUserID(ctx, user.ID.String()), "user signed in")
	return s.issue(*user)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	return toDTO(*user), nil
}

func (s *service) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return s.repo.SetBanned(ctx, id, banned)
}

func (s *service) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	hash, err := security.HashPassword(newPassword, s.password)
	if err != nil {
		return err
	}
	return s.repo.SetPasswordHash(ctx, id, hash)
}

func (s *service) issue(user models.User) (AuthDTO, error) {
	token, err := auth.MintAccessToken(s.jwt, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		Locale: user.PreferredLocale,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return AuthDTO{}, err
	}
	return AuthDTO{User: toDTO(user), Token: token}, nil
}

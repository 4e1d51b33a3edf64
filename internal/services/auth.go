package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/repos"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	tokens   TokenService
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tokens TokenService) AuthService {
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates the user and immediately issues a token so the handler
// can set the identity cookie in the same response.
func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || name == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", apperr.ErrInvalidArgument)
	}
	if !types.ValidRole(input.Role) {
		return nil, "", fmt.Errorf("%w: role must be %q or %q", apperr.ErrInvalidArgument, types.RoleStudent, types.RoleStaff)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("%w: %s", apperr.ErrEmailTaken, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &types.User{
		ID:         uuid.New(),
		Email:      email,
		Password:   string(hash),
		Name:       name,
		Role:       input.Role,
		Department: strings.TrimSpace(input.Department),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := as.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	as.log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, "", fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	token, err := as.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

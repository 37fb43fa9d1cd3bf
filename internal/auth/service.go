// Package auth implements account registration, credential checks and
// access-token handling.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository"
	"go.uber.org/zap"
)

type Service struct {
	users  repository.UserRepo
	hasher PasswordHasher
	tokens *TokenIssuer
	policy PasswordPolicy
	log    *zap.Logger
	now    func() time.Time
}

func NewService(users repository.UserRepo, hasher PasswordHasher, tokens *TokenIssuer, policy PasswordPolicy, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, policy: policy, log: log, now: time.Now}
}

// Tokens exposes the issuer so transport code can verify bearer tokens.
func (s *Service) Tokens() *TokenIssuer { return s.tokens }

type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the registration, hashes the password and stores the
// user. A taken email yields apperr.ErrConflict.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	verr := &apperr.ValidationError{}
	name := strings.TrimSpace(reg.FullName)
	if name == "" {
		verr.Add("full_name", "value is required")
	}
	email, err := checkEmail(reg.Email)
	if err != nil {
		verr.Add("email", err.Error())
	}
	if perr := s.policy.Check(reg.Password); perr != nil {
		var pv *apperr.ValidationError
		if errors.As(perr, &pv) {
			verr.Fields = append(verr.Fields, pv.Fields...)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:          email,
		FullName:       name,
		HashedPassword: hash,
		CreatedAt:      s.now().UTC(),
	}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id

	s.log.Info("user registered", zap.String("email", email))
	return u, nil
}

// Login checks credentials and returns a signed token. Unknown users, wrong
// passwords and disabled accounts are all apperr.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: incorrect email or password", apperr.ErrUnauthorized)
	}
	if err != nil {
		return "", nil, err
	}
	if !s.hasher.Verify(u.HashedPassword, password) {
		return "", nil, fmt.Errorf("%w: incorrect email or password", apperr.ErrUnauthorized)
	}
	if u.Disabled {
		return "", nil, fmt.Errorf("%w: account disabled", apperr.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(u.Email)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.Email, now); err != nil {
		s.log.Warn("update last login", zap.String("email", u.Email), zap.Error(err))
	} else {
		u.LastLogin = &now
	}

	return token, u, nil
}

// Authenticate resolves a token to its active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if u.Disabled {
		return nil, fmt.Errorf("%w: account disabled", apperr.ErrUnauthorized)
	}
	return u, nil
}

// checkEmail trims s and validates it. The address is kept as typed; lookups
// and duplicate detection match it exactly.
func checkEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("value is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", errors.New("value is not a valid email address")
	}
	return addr.Address, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"
)

// SeedUser is an account created on first run.
type SeedUser struct {
	Username string
	Password string
	Role     core.Role
}

// DefaultSeedUsers are the accounts a fresh installation starts with.
func DefaultSeedUsers(adminPassword, staffPassword string) []SeedUser {
	return []SeedUser{
		{Username: "admin", Password: adminPassword, Role: core.RoleAdmin},
		{Username: "staff", Password: staffPassword, Role: core.RoleStaff},
	}
}

// AuthService checks credentials against bcrypt hashes.
type AuthService struct {
	users     ports.UserStore
	cost      int
	dummyHash []byte
	logger    *applog.Logger
}

func NewAuthService(users ports.UserStore, opts ...Option) *AuthService {
	o := buildOptions(applog.ComponentAuth, opts)
	s := &AuthService{users: users, cost: bcrypt.DefaultCost, logger: o.logger}
	// Compared against when the user is unknown so both failure paths cost the same.
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user"), s.cost)
	return s
}

// HashPassword returns the bcrypt hash stored for a user.
func (s *AuthService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Authenticate returns the user's identity, or core.ErrAuth for an unknown
// user and a wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (core.Identity, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return core.Identity{}, fmt.Errorf("look up user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logger.WarnContext(ctx, "Login failed", applog.FieldUsername, username)
		return core.Identity{}, core.ErrAuth
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login failed", applog.FieldUsername, username)
		return core.Identity{}, core.ErrAuth
	}
	s.logger.InfoContext(ctx, "Login succeeded", applog.FieldUsername, u.Username, applog.FieldRole, string(u.Role))
	return core.Identity{Username: u.Username, Role: u.Role}, nil
}

// EnsureSeedUsers creates the seed accounts when the user table is empty.
// Existing installations are left alone.
func (s *AuthService) EnsureSeedUsers(ctx context.Context, seeds []SeedUser) error {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, seed := range seeds {
		if !seed.Role.Valid() {
			return fmt.Errorf("seed user %q: invalid role %q", seed.Username, seed.Role)
		}
		hash, err := s.HashPassword(seed.Password)
		if err != nil {
			return err
		}
		if _, err := s.users.CreateUser(ctx, core.User{Username: seed.Username, PasswordHash: hash, Role: seed.Role}); err != nil {
			return fmt.Errorf("seed user %q: %w", seed.Username, err)
		}
		s.logger.InfoContext(ctx, "Seed user created", applog.FieldUsername, seed.Username, applog.FieldRole, string(seed.Role))
	}
	return nil
}

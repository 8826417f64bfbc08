package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       model.Role
	RetailerID *uint64
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login returns a signed access token for the matching user.
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	ParseToken(token string) (Identity, error)
}

type authService struct {
	users     repository.UserRepository
	retailers repository.RetailerRepository
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, retailers repository.RetailerRepository, secret string, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &authService{users: users, retailers: retailers, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type tokenClaims struct {
	ID   uint64     `json:"id"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("name, email and password are required")
	}
	if len(in.Password) < 6 {
		return nil, validationError("password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = model.RoleStaff
	}
	if !role.Valid() {
		return nil, validationError("invalid role %q", role)
	}
	if in.RetailerID != nil {
		if role != model.RoleRetailer {
			return nil, validationError("retailer_id only applies to RETAILER accounts")
		}
		ok, err := s.retailers.Exists(ctx, *in.RetailerID)
		if err != nil {
			return nil, storageError(err)
		}
		if !ok {
			return nil, notFoundError("retailer %d not found", *in.RetailerID)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageError(err)
	}
	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		RetailerID:   in.RetailerID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsDuplicate(err) {
			return nil, conflictError("email already registered")
		}
		return nil, storageError(err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, validationError("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", nil, ErrUnauthenticated
		}
		return "", nil, storageError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrUnauthenticated
	}

	now := s.now()
	claims := tokenClaims{
		ID:   u.ID,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, storageError(err)
	}
	return signed, u, nil
}

func (s *authService) ParseToken(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrUnauthenticated
	}
	if claims.ID == 0 || !claims.Role.Valid() {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: claims.ID, Role: claims.Role}, nil
}

// IsUnauthenticated reports whether err means the caller could not be identified.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

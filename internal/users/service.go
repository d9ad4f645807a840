package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"taskboard/internal/auth"

	"github.com/google/uuid"
)

// Repository is the persistence contract for user accounts.
// Implementations return ErrNotFound for missing rows and ErrEmailTaken on
// a duplicate email.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// List returns every user except excludeID (all users when empty), oldest first.
	List(ctx context.Context, excludeID string) ([]User, error)
}

const minPasswordLen = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service is the credential store: signup, credential checks and lookups.
type Service struct {
	repo       Repository
	bcryptCost int
	clock      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost, clock: time.Now}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := NormalizeEmail(req.Email)

	if first == "" || last == "" || email == "" || req.Password == "" {
		return User{}, &ValidationError{Message: "All fields are required"}
	}
	if !emailPattern.MatchString(email) {
		return User{}, &ValidationError{Field: "email", Message: "Invalid email"}
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return User{}, &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return User{}, &ValidationError{Field: "password", Message: "Password must be at most 72 bytes"}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	u := User{
		ID:           uuid.NewString(),
		FirstName:    first,
		LastName:     last,
		FullName:     first + " " + last,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique index still guards the race between the lookup and the insert.
	return s.repo.Create(ctx, u)
}

// Authenticate checks credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials after a bcrypt comparison of similar cost.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = auth.ComparePassword(s.dummy(), password)
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := auth.ComparePassword(u.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, ErrNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

// ListOthers returns every user but the caller.
func (s *Service) ListOthers(ctx context.Context, callerID string) ([]User, error) {
	if callerID == "" {
		return nil, errors.New("users: caller id required")
	}
	return s.repo.List(ctx, callerID)
}

func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx, "")
}

// ResolveIdentity implements auth.UserResolver.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (auth.Identity, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Identity{}, auth.ErrUnknownUser
		}
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("not-a-real-password", s.bcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

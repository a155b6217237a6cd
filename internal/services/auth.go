package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/apperrors"
	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/store"
	"github.com/harentsoaR/care-tracker-api/internal/utils"
)

// AuthService checks credentials against the store's users and registers
// new ones.
type AuthService struct {
	store   *store.Store
	matcher utils.PasswordMatcher
	logger  *zap.Logger
}

func NewAuthService(s *store.Store, matcher utils.PasswordMatcher, logger *zap.Logger) *AuthService {
	if matcher == nil {
		matcher = utils.PlainMatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: s, matcher: matcher, logger: logger}
}

// Authenticate returns the user registered under email when password
// matches. Unknown emails and wrong passwords fail the same way.
func (a *AuthService) Authenticate(email, password string) (models.User, error) {
	user, ok := a.store.UserByEmail(email)
	if !ok || !a.matcher.Matches(password, user.Password) {
		a.logger.Info("login rejected", zap.String("email", email))
		return models.User{}, apperrors.Authentication("invalid credentials")
	}
	a.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Register creates a user from a signup payload.
func (a *AuthService) Register(nu models.NewUser) (models.User, error) {
	if _, exists := a.store.UserByEmail(nu.Email); exists {
		return models.User{}, apperrors.Conflict("user already exists")
	}
	prepared, err := a.matcher.Prepare(nu.Password)
	if err != nil {
		a.logger.Error("failed to prepare password", zap.Error(err))
		return models.User{}, err
	}
	nu.Password = prepared

	user, err := a.store.CreateUser(nu)
	if err != nil {
		return models.User{}, err
	}
	a.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// SessionState is Anonymous or Authenticated.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session tracks the currently logged-in user of one consumer. Failed
// logins and signups leave it untouched.
type Session struct {
	auth *AuthService

	mu   sync.RWMutex
	user *models.User
}

func NewSession(auth *AuthService) *Session {
	return &Session{auth: auth}
}

func (s *Session) Login(email, password string) (models.User, error) {
	user, err := s.auth.Authenticate(email, password)
	if err != nil {
		return models.User{}, err
	}
	s.set(&user)
	return user, nil
}

func (s *Session) Signup(nu models.NewUser) (models.User, error) {
	user, err := s.auth.Register(nu)
	if err != nil {
		return models.User{}, err
	}
	s.set(&user)
	return user, nil
}

// Logout clears the session. Calling it while anonymous is a no-op.
func (s *Session) Logout() {
	s.set(nil)
}

// Current returns the logged-in user, if any.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) State() SessionState {
	if _, ok := s.Current(); ok {
		return Authenticated
	}
	return Anonymous
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

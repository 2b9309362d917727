package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/store"
)

const (
	// SessionTTL is the default session lifetime.
	SessionTTL = 24 * time.Hour
	// ExtendedSessionTTL is the lifetime when the user asks to stay
	// logged in.
	ExtendedSessionTTL = 30 * 24 * time.Hour
)

// Service is the credential and session manager. It owns password
// verification, session and API-key issuance, caller resolution, and the
// single ownership rule that gates every mutation.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	apiKeys  *store.APIKeyStore
	logger   *slog.Logger
}

func NewService(us *store.UserStore, ss *store.SessionStore, ks *store.APIKeyStore, logger *slog.Logger) *Service {
	return &Service{users: us, sessions: ss, apiKeys: ks, logger: logger}
}

// Register creates a user with a hashed password. Returns ErrConflict when
// the username or email is already taken.
func (s *Service) Register(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	taken, err := s.users.UsernameOrEmailExists(username, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(username, email, hash)
	if errors.Is(err, store.ErrDuplicate) {
		// Concurrent registration raced past the pre-check; the UNIQUE
		// constraint is the arbiter.
		return nil, ErrConflict
	}
	return user, err
}

// Login verifies the password and creates a session. The identifier is a
// username, or an email as a fallback. The session expires after 24
// hours, or 30 days when keepLoggedIn is set.
func (s *Service) Login(identifier, password string, keepLoggedIn bool) (*model.User, *model.Session, error) {
	user, err := s.findByIdentifier(identifier)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, nil, ErrUnauthorized
	}

	ttl := SessionTTL
	if keepLoggedIn {
		ttl = ExtendedSessionTTL
	}
	sess, err := s.sessions.Create(user.ID, ttl)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// RefreshAPIKey verifies the password and replaces the user's API key.
// The old key is invalid the moment the new one exists.
func (s *Service) RefreshAPIKey(identifier, password string) (*model.APIKey, error) {
	user, err := s.findByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrUnauthorized
	}

	return s.apiKeys.Replace(user.ID)
}

// findByIdentifier looks the user up by username first, then by email
// when the identifier looks like an address.
func (s *Service) findByIdentifier(identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	user, err := s.users.GetByUsername(identifier)
	if err != nil || user != nil {
		return user, err
	}
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(identifier)
	}
	return nil, nil
}

// ResolveSession returns the user and session for a session token.
// Expired or unknown tokens resolve to ErrUnauthorized.
func (s *Service) ResolveSession(token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, ErrUnauthorized
	}
	sess, err := s.sessions.GetByToken(token)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUnauthorized
	}
	return user, sess, nil
}

// ResolveAPIKey returns the user owning the given API key.
func (s *Service) ResolveAPIKey(key string) (*model.User, error) {
	if key == "" {
		return nil, ErrUnauthorized
	}
	k, err := s.apiKeys.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(k.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// AuthorizeSelf enforces the only authorization rule in the system: a
// caller may act on a resource only when every provided identity field
// matches their own. Empty username/email skip that field's check.
func (s *Service) AuthorizeSelf(caller AuthContext, targetUserID int64, targetUsername, targetEmail string) error {
	if caller.UserID != targetUserID {
		return ErrForbidden
	}
	if targetUsername != "" && !strings.EqualFold(caller.Username, targetUsername) {
		return ErrForbidden
	}
	if targetEmail != "" && !strings.EqualFold(caller.Email, targetEmail) {
		return ErrForbidden
	}
	return nil
}

// ChangePassword verifies the old password before hashing and storing the
// new one, then revokes the user's sessions so stolen cookies die with
// the old password. The API key survives; refreshing it is separate.
func (s *Service) ChangePassword(userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if !VerifyPassword(user.PasswordHash, oldPassword) {
		return ErrUnauthorized
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(userID, hash); err != nil {
		return err
	}
	return s.sessions.DeleteByUserID(userID)
}

// DeleteAccount requires an exact username+email match on the caller's
// own account plus password verification. Owned rows (sessions, API key,
// inventories, recipes) cascade in the database.
func (s *Service) DeleteAccount(caller AuthContext, username, email, password string) error {
	if err := s.AuthorizeSelf(caller, caller.UserID, username, email); err != nil {
		return err
	}
	user, err := s.users.GetByID(caller.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return ErrUnauthorized
	}

	if err := s.users.Delete(user.ID); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user_id", user.ID)
	return nil
}

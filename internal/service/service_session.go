package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/store"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50

	// maxUsernameAttempts bounds the suffix loop when synthesizing a
	// username from an OAuth email.
	maxUsernameAttempts = 100
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// sessionService is the concrete implementation of SessionService. It
// composes the identity repository, password hasher, and token service,
// and invokes the linkage synchronizer for identity-mutating operations so
// the owner's file index never goes stale.
type sessionService struct {
	identities store.IdentityRepository
	hasher     PasswordHasher
	tokens     TokenService
	linkage    LinkageSynchronizer
	uuid       *utils.UUIDGenerator

	logger *logger.Logger
}

// NewSessionService constructs a SessionService wired to the given
// collaborators. The returned service is safe for concurrent use.
func NewSessionService(
	identities store.IdentityRepository,
	hasher PasswordHasher,
	tokens TokenService,
	linkage LinkageSynchronizer,
	logger *logger.Logger,
) SessionService {
	return &sessionService{
		identities: identities,
		hasher:     hasher,
		tokens:     tokens,
		linkage:    linkage,
		uuid:       utils.NewUUIDGenerator(),
		logger:     logger,
	}
}

// Signup creates a password account and establishes a session for it.
//
// Validation failures return ErrValidation or ErrWeakSecret. Duplicates
// are reported deterministically: a combined collision before an
// email-only collision before a username-only collision. The pre-read
// exists only for that deterministic reporting; under a race the store's
// atomic insert is the final arbiter.
func (s *sessionService) Signup(ctx context.Context, req models.SignupRequest) (models.Identity, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := validateUsername(req.Username); err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}
	if err := validateEmail(req.Email); err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	if err := s.checkDuplicates(ctx, req.Username, req.Email, ""); err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	now := time.Now().UTC()
	identity := models.Identity{
		ID:         s.uuid.Generate(),
		Username:   req.Username,
		Email:      req.Email,
		SecretHash: hash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.identities.Create(ctx, identity)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("identity creation ended with error")
		return models.Identity{}, models.TokenPair{}, mapStoreDuplicate(err)
	}

	pair, err := s.tokens.IssuePair(ctx, created)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	return created, pair, nil
}

// Signin authenticates by username or email plus password.
//
// Unknown subject and wrong password both come back as
// ErrInvalidCredentials so callers cannot enumerate accounts. An existing
// account with no stored hash (created through OAuth) is the one
// deliberate exception and fails with ErrNoPasswordSet.
func (s *sessionService) Signin(ctx context.Context, req models.SigninRequest) (models.Identity, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("%w: login and password are required", ErrValidation)
	}

	identity, err := s.identities.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return models.Identity{}, models.TokenPair{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("identity lookup by login failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("identity lookup by login failed: %w", err)
	}

	if !identity.HasPassword() {
		return models.Identity{}, models.TokenPair{}, ErrNoPasswordSet
	}

	ok, err := s.hasher.Verify(req.Password, identity.SecretHash)
	if err != nil {
		log.Err(err).Str("id", identity.ID).Msg("secret verification failed")
		return models.Identity{}, models.TokenPair{}, err
	}
	if !ok {
		return models.Identity{}, models.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	return identity, pair, nil
}

// OAuthCallback handles a completed external sign-in. An existing identity
// with the provider's email is reused (implicit linking); otherwise a new
// password-less identity is created with a username synthesized from the
// email's local part, suffixing a counter until one is free.
//
// Safe against double callbacks: a concurrent create losing the email race
// falls back to reusing the identity the winner created.
func (s *sessionService) OAuthCallback(ctx context.Context, externalEmail, externalName string) (models.Identity, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(externalEmail))
	if err := validateEmail(email); err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	identity, err := s.identities.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// Implicit link: keep the account as is.
	case errors.Is(err, store.ErrIdentityNotFound):
		identity, err = s.createOAuthIdentity(ctx, email, externalName)
		if err != nil {
			return models.Identity{}, models.TokenPair{}, err
		}
	default:
		log.Err(err).Msg("identity lookup by email failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("identity lookup by email failed: %w", err)
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	return identity, pair, nil
}

// Refresh rotates a session. The presented token must verify as
// refresh-kind and carry the identity's current token version; rotation
// bumps the stored version, so the presented token (and any other
// outstanding pair) is invalid from this point on.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (models.Identity, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	identity, err := s.identities.FindByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return models.Identity{}, models.TokenPair{}, ErrTokenInvalid
		}
		log.Err(err).Msg("identity lookup by id failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("identity lookup by id failed: %w", err)
	}

	if claims.TokenVersion != identity.TokenVersion {
		return models.Identity{}, models.TokenPair{}, ErrTokenInvalid
	}

	version, err := s.identities.BumpTokenVersion(ctx, identity.ID)
	if err != nil {
		log.Err(err).Str("id", identity.ID).Msg("token version bump failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("token version bump failed: %w", err)
	}
	identity.TokenVersion = version

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	return identity, pair, nil
}

// SignOut bumps the identity's token version so every outstanding token
// stops verifying. The transport layer clears the cookie carriers.
func (s *sessionService) SignOut(ctx context.Context, identityID string) error {
	log := logger.FromContext(ctx)

	if _, err := s.identities.BumpTokenVersion(ctx, identityID); err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return ErrTokenInvalid
		}
		log.Err(err).Str("id", identityID).Msg("token version bump failed")
		return fmt.Errorf("token version bump failed: %w", err)
	}

	return nil
}

// Authenticate resolves an access token to the live identity record.
// A token whose embedded version no longer matches the stored one was
// issued before a sign-out or rotation and is rejected as invalid.
func (s *sessionService) Authenticate(ctx context.Context, accessToken string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.VerifyAccess(ctx, accessToken)
	if err != nil {
		return models.Identity{}, err
	}

	identity, err := s.identities.FindByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return models.Identity{}, ErrTokenInvalid
		}
		log.Err(err).Msg("identity lookup by id failed")
		return models.Identity{}, fmt.Errorf("identity lookup by id failed: %w", err)
	}

	if claims.TokenVersion != identity.TokenVersion {
		return models.Identity{}, ErrTokenInvalid
	}

	return identity, nil
}

// UpdateProfile applies a partial mutation to the identity. Empty fields
// are left unchanged. When the email changes, the file index is re-keyed
// before success is reported; a failed rekey fails the whole operation.
// Every successful update rotates the session.
func (s *sessionService) UpdateProfile(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Identity, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	current, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return models.Identity{}, models.TokenPair{}, store.ErrIdentityNotFound
		}
		log.Err(err).Msg("identity lookup by id failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("identity lookup by id failed: %w", err)
	}

	next := current
	next.UpdatedAt = time.Now().UTC()

	if username := strings.TrimSpace(update.Username); username != "" && username != current.Username {
		if err := validateUsername(username); err != nil {
			return models.Identity{}, models.TokenPair{}, err
		}
		next.Username = username
	}
	if email := strings.ToLower(strings.TrimSpace(update.Email)); email != "" && email != current.Email {
		if err := validateEmail(email); err != nil {
			return models.Identity{}, models.TokenPair{}, err
		}
		next.Email = email
	}
	if update.Password != "" {
		hash, err := s.hasher.Hash(update.Password)
		if err != nil {
			return models.Identity{}, models.TokenPair{}, err
		}
		next.SecretHash = hash
	}

	if err := s.checkDuplicates(ctx, changedOrEmpty(next.Username, current.Username), changedOrEmpty(next.Email, current.Email), current.ID); err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	// The index must be reachable under the new email before the caller
	// sees success; a stale owner key is a consistency bug, not an
	// acceptable eventual state. The rekey runs before the email change
	// becomes durable: a failed rekey persists nothing, so the retry still
	// sees the email delta, and if the identity update below fails after a
	// completed rekey the retry's rekey finds no index under the old email
	// and is a no-op while the update converges on the new email.
	emailChanged := next.Email != current.Email
	if emailChanged {
		if err := s.linkage.Rekey(ctx, current.Email, next.Email); err != nil {
			log.Err(err).Str("id", identityID).Msg("file index rekey failed")
			return models.Identity{}, models.TokenPair{}, fmt.Errorf("file index rekey failed: %w", err)
		}
	}

	updated, err := s.identities.Update(ctx, next)
	if err != nil {
		log.Err(err).Str("id", identityID).Msg("identity update ended with error")
		if emailChanged {
			if rerr := s.linkage.Rekey(ctx, next.Email, current.Email); rerr != nil {
				log.Err(rerr).Str("id", identityID).Msg("compensating rekey failed, index stays keyed to the unapplied email")
			}
		}
		return models.Identity{}, models.TokenPair{}, mapStoreDuplicate(err)
	}

	version, err := s.identities.BumpTokenVersion(ctx, updated.ID)
	if err != nil {
		log.Err(err).Str("id", updated.ID).Msg("token version bump failed")
		return models.Identity{}, models.TokenPair{}, fmt.Errorf("token version bump failed: %w", err)
	}
	updated.TokenVersion = version

	pair, err := s.tokens.IssuePair(ctx, updated)
	if err != nil {
		return models.Identity{}, models.TokenPair{}, err
	}

	return updated, pair, nil
}

// CheckAvailability probes whether a username and/or email are taken.
// Empty request fields are skipped.
func (s *sessionService) CheckAvailability(ctx context.Context, req models.AvailabilityRequest) (models.Availability, error) {
	var result models.Availability

	if username := strings.TrimSpace(req.Username); username != "" {
		taken, err := s.usernameTaken(ctx, username, "")
		if err != nil {
			return models.Availability{}, err
		}
		if taken {
			result.Username = ErrDuplicateUsername.Error()
		}
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		taken, err := s.emailTaken(ctx, email, "")
		if err != nil {
			return models.Availability{}, err
		}
		if taken {
			result.Email = ErrDuplicateEmail.Error()
		}
	}

	return result, nil
}

// createOAuthIdentity creates a password-less identity for a first-time
// OAuth sign-in, synthesizing a unique username from the email local part.
func (s *sessionService) createOAuthIdentity(ctx context.Context, email, displayName string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	base := usernameBase(email)

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			// Make room for the suffix so the candidate stays within the
			// username length bounds.
			suffix := strconv.Itoa(attempt)
			if len(candidate) > usernameMaxLength-len(suffix) {
				candidate = candidate[:usernameMaxLength-len(suffix)]
			}
			candidate += suffix
		}

		now := time.Now().UTC()
		identity := models.Identity{
			ID:          s.uuid.Generate(),
			Username:    candidate,
			Email:       email,
			DisplayName: strings.TrimSpace(displayName),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created, err := s.identities.Create(ctx, identity)
		switch {
		case err == nil:
			return created, nil
		case errors.Is(err, store.ErrUsernameAlreadyExists):
			continue
		case errors.Is(err, store.ErrEmailAlreadyExists):
			// Lost a double-callback race: reuse the winner's identity.
			return s.identities.FindByEmail(ctx, email)
		default:
			log.Err(err).Str("email", email).Msg("oauth identity creation ended with error")
			return models.Identity{}, fmt.Errorf("oauth identity creation ended with error: %w", err)
		}
	}

	return models.Identity{}, ErrUsernameGenerationExhausted
}

// checkDuplicates reports collisions in the deterministic order:
// combined, then email, then username. excludeID discounts the caller's
// own record on profile updates. Empty arguments are skipped.
func (s *sessionService) checkDuplicates(ctx context.Context, username, email, excludeID string) error {
	var usernameTaken, emailTaken bool
	var err error

	if username != "" {
		if usernameTaken, err = s.usernameTaken(ctx, username, excludeID); err != nil {
			return err
		}
	}
	if email != "" {
		if emailTaken, err = s.emailTaken(ctx, email, excludeID); err != nil {
			return err
		}
	}

	switch {
	case usernameTaken && emailTaken:
		return ErrDuplicateUsernameAndEmail
	case emailTaken:
		return ErrDuplicateEmail
	case usernameTaken:
		return ErrDuplicateUsername
	default:
		return nil
	}
}

func (s *sessionService) usernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	found, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("identity lookup by username failed: %w", err)
	}

	return found.ID != excludeID, nil
}

func (s *sessionService) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	found, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("identity lookup by email failed: %w", err)
	}

	return found.ID != excludeID, nil
}

func validateUsername(username string) error {
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, usernameMinLength, usernameMaxLength)
	}

	return nil
}

func validateEmail(email string) error {
	if !emailShape.MatchString(email) {
		return fmt.Errorf("%w: malformed email", ErrValidation)
	}

	return nil
}

// usernameBase derives the starting username candidate from an email's
// local part, padding short local parts up to the minimum length.
func usernameBase(email string) string {
	base := email[:strings.Index(email, "@")]
	for len(base) < usernameMinLength {
		base += "0"
	}
	if len(base) > usernameMaxLength {
		base = base[:usernameMaxLength]
	}

	return base
}

// changedOrEmpty returns next when it differs from current, otherwise the
// empty string so duplicate checks skip unchanged fields.
func changedOrEmpty(next, current string) string {
	if next == current {
		return ""
	}

	return next
}

// mapStoreDuplicate translates store duplicate sentinels into the service
// error taxonomy; everything else is wrapped as a fatal store failure.
func mapStoreDuplicate(err error) error {
	switch {
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return ErrDuplicateUsername
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrDuplicateEmail
	case errors.Is(err, store.ErrIdentityAlreadyExists):
		return err
	default:
		return fmt.Errorf("identity persistence failed: %w", err)
	}
}

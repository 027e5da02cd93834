package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yojanasetu/apiserver/internal/oauth"
	"github.com/yojanasetu/apiserver/internal/store"
	"github.com/yojanasetu/apiserver/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned when a signup reuses an existing email.
var ErrEmailTaken = errors.New("account already exists")

// ErrInvalidCredentials is returned when a login cannot be verified.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Event channels published by the account service.
const (
	EventAccountSignup = "account.signup"
	EventProfileSaved  = "account.profile_saved"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	ReplaceProfile(ctx context.Context, id string, profile types.Profile) (types.Account, error)
	SetPicture(ctx context.Context, id, pictureURL string) error
}

// EventPublisher publishes account lifecycle events. A nil publisher
// disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// AccountService encapsulates signup, login, and profile use-cases.
type AccountService struct {
	repo   AccountRepository
	events EventPublisher
	logger *zap.Logger
}

func NewAccountService(repo AccountRepository, events EventPublisher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{repo: repo, events: events, logger: logger}
}

// Signup creates a password-based account. The email must not be in use.
func (s *AccountService) Signup(ctx context.Context, name, email, password, phone string) (types.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.Account{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Account{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Account{}, err
	}

	account, err := s.repo.Create(ctx, types.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(phone),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.Account{}, ErrEmailTaken
		}
		return types.Account{}, err
	}

	s.publish(ctx, EventAccountSignup, account)
	return account, nil
}

// Login verifies a password against the stored hash. Accounts created
// through Google sign-in carry an empty hash and are rejected before any
// comparison runs, so password login is categorically disabled for them.
func (s *AccountService) Login(ctx context.Context, email, password string) (types.Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrInvalidCredentials
		}
		return types.Account{}, err
	}

	if account.PasswordHash == "" {
		return types.Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return types.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// LoginWithGoogle resolves an account for a verified Google identity,
// creating a password-less account on first sign-in.
func (s *AccountService) LoginWithGoogle(ctx context.Context, identity oauth.Identity) (types.Account, error) {
	account, err := s.repo.GetByEmail(ctx, identity.Email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.Account{}, err
	}

	account, err = s.repo.Create(ctx, types.Account{
		GoogleID: identity.Subject,
		Name:     identity.Name,
		Email:    identity.Email,
		Picture:  identity.Picture,
	})
	if err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return types.Account{}, err
		}
		// Lost a race with a concurrent first sign-in.
		return s.repo.GetByEmail(ctx, identity.Email)
	}

	s.publish(ctx, EventAccountSignup, account)
	return account, nil
}

// SaveProfile replaces the account's profile sub-record wholesale.
func (s *AccountService) SaveProfile(ctx context.Context, accountID string, profile types.Profile) (types.Account, error) {
	account, err := s.repo.ReplaceProfile(ctx, accountID, profile)
	if err != nil {
		return types.Account{}, err
	}
	s.publish(ctx, EventProfileSaved, account)
	return account, nil
}

// GetProfile returns the stored profile, or an empty one if none was
// saved yet.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (types.Profile, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return types.Profile{}, err
	}
	if account.Profile == nil {
		return types.Profile{}, nil
	}
	return *account.Profile, nil
}

// GetEmail returns the account's email only.
func (s *AccountService) GetEmail(ctx context.Context, accountID string) (string, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	return account.Email, nil
}

// SetPicture records the avatar URL on the account.
func (s *AccountService) SetPicture(ctx context.Context, accountID, pictureURL string) error {
	return s.repo.SetPicture(ctx, accountID, pictureURL)
}

// publish emits an account event best-effort. Failures are logged and
// never surfaced to the caller.
func (s *AccountService) publish(ctx context.Context, channel string, account types.Account) {
	if s.events == nil {
		return
	}

	event := types.AccountEvent{
		AccountID:  account.ID.Hex(),
		Email:      account.Email,
		OccurredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("marshal account event", zap.String("channel", channel), zap.Error(err))
		return
	}

	if _, err := s.events.Publish(ctx, channel, data, map[string]string{"event": channel}); err != nil {
		s.logger.Warn("publish account event",
			zap.String("channel", channel),
			zap.String("account_id", event.AccountID),
			zap.Error(err),
		)
	}
}

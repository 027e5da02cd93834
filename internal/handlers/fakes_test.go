package handlers

import (
	"context"
	"strings"
	"sync"

	"github.com/yojanasetu/apiserver/internal/store"
	"github.com/yojanasetu/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAccountRepo is an in-memory services.AccountRepository.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]types.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]types.Account)}
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *fakeAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return types.Account{}, store.ErrDuplicate
		}
	}
	account.ID = primitive.NewObjectID()
	r.accounts[account.ID.Hex()] = account
	return account, nil
}

func (r *fakeAccountRepo) ReplaceProfile(ctx context.Context, id string, profile types.Profile) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	account.Profile = &profile
	r.accounts[id] = account
	return account, nil
}

func (r *fakeAccountRepo) SetPicture(ctx context.Context, id, pictureURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	account.Picture = pictureURL
	r.accounts[id] = account
	return nil
}

// fakeSchemeRepo serves a fixed scheme list.
type fakeSchemeRepo struct {
	schemes []types.SchemeRecord
}

func (r *fakeSchemeRepo) ListBySector(ctx context.Context, sector string) ([]types.SchemeRecord, error) {
	return r.schemes, nil
}

// fakeGenerator returns a scripted model response.
type fakeGenerator struct {
	response string
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.response, nil
}

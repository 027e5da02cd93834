package services

import (
	"context"
	"strings"
	"sync"

	"github.com/yojanasetu/apiserver/internal/store"
	"github.com/yojanasetu/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAccountRepo is an in-memory AccountRepository.
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

func (r *fakeAccountRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// fakeSchemeRepo records the sector it was asked for.
type fakeSchemeRepo struct {
	schemes    []types.SchemeRecord
	lastSector string
}

func (r *fakeSchemeRepo) ListBySector(ctx context.Context, sector string) ([]types.SchemeRecord, error) {
	r.lastSector = sector
	return r.schemes, nil
}

// fakeGenerator returns a scripted response and records the prompt.
type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// fakePublisher records published channels.
type fakePublisher struct {
	mu       sync.Mutex
	channels []string
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	return "msg-1", nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.channels...)
}

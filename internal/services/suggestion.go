package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yojanasetu/apiserver/internal/store"
	"github.com/yojanasetu/apiserver/types"
	"go.uber.org/zap"
)

const defaultSector = "education"

// NoSchemesError is returned when the resolved sector collection is empty.
type NoSchemesError struct {
	Sector string
}

func (e *NoSchemesError) Error() string {
	return fmt.Sprintf("No schemes found for sector: %s", e.Sector)
}

// UpstreamResponseError is returned when the model's output cannot be
// parsed as JSON. Raw carries the unparsed text for diagnosis.
type UpstreamResponseError struct {
	Raw string
	Err error
}

func (e *UpstreamResponseError) Error() string {
	return fmt.Sprintf("unparseable model response: %v", e.Err)
}

func (e *UpstreamResponseError) Unwrap() error { return e.Err }

// SchemeRepository defines read access to the sector collections.
type SchemeRepository interface {
	ListBySector(ctx context.Context, sector string) ([]types.SchemeRecord, error)
}

// TextGenerator produces text from a prompt via an external model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SuggestionService ranks schemes for an account by fetching the
// account's preferred sector collection and asking an external generative
// model to select the most relevant records.
type SuggestionService struct {
	accounts  AccountRepository
	schemes   SchemeRepository
	generator TextGenerator
	logger    *zap.Logger
}

func NewSuggestionService(accounts AccountRepository, schemes SchemeRepository, generator TextGenerator, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		accounts:  accounts,
		schemes:   schemes,
		generator: generator,
		logger:    logger,
	}
}

// Suggest returns the model-ranked scheme list for the account. The model
// output is trusted as-is once it parses; no size or subset check is
// applied to the returned array.
func (s *SuggestionService) Suggest(ctx context.Context, accountID string) ([]types.SchemeRecord, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sector := resolveSector(account)
	if !store.KnownSector(sector) && sector != defaultSector {
		s.logger.Debug("unrecognized sector, using education collection",
			zap.String("sector", sector),
			zap.String("account_id", accountID),
		)
	}

	schemes, err := s.schemes.ListBySector(ctx, sector)
	if err != nil {
		return nil, err
	}
	if len(schemes) == 0 {
		return nil, &NoSchemesError{Sector: sector}
	}

	prompt, err := buildPrompt(account, sector, schemes)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	var ranked []types.SchemeRecord
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &ranked); err != nil {
		return nil, &UpstreamResponseError{Raw: raw, Err: err}
	}
	return ranked, nil
}

// resolveSector reads the preferred sector from the profile, lower-cased.
// Absent or empty values default to education.
func resolveSector(account types.Account) string {
	if account.Profile == nil {
		return defaultSector
	}
	sector := strings.ToLower(strings.TrimSpace(account.Profile.PreferredSector))
	if sector == "" {
		return defaultSector
	}
	return sector
}

func buildPrompt(account types.Account, sector string, schemes []types.SchemeRecord) (string, error) {
	accountJSON, err := json.Marshal(account)
	if err != nil {
		return "", err
	}
	schemesJSON, err := json.Marshal(schemes)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`User data: %s,
Sector: %s.
From the following list of schemes: %s,
suggest the top 10 most relevant ones for this user.
Output strictly as valid JSON (array of objects).`, accountJSON, sector, schemesJSON), nil
}

// stripCodeFences removes markdown code-fence wrapping that generative
// models frequently add around JSON output.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

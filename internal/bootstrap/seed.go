// Package bootstrap loads household membership from a seed file into the
// membership store.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
)

// SeedFile is the document read by LoadSeedFile.
type SeedFile struct {
	Households []SeedHousehold `mapstructure:"households"`
}

type SeedHousehold struct {
	ID      string       `mapstructure:"id"`
	Name    string       `mapstructure:"name"`
	Address string       `mapstructure:"address"`
	Members []SeedMember `mapstructure:"members"`
}

type SeedMember struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// LoadSeedFile reads a YAML, JSON or TOML seed file. The format follows the
// file extension.
func LoadSeedFile(path string) (*SeedFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed SeedFile
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *SeedFile) validate() error {
	seen := make(map[string]bool, len(s.Households))
	for i, h := range s.Households {
		if strings.TrimSpace(h.ID) == "" {
			return apperrors.NewValidationError(fmt.Sprintf("households[%d].id", i), "is required")
		}
		if seen[h.ID] {
			return apperrors.NewValidationError(fmt.Sprintf("households[%d].id", i), "duplicate household "+h.ID)
		}
		seen[h.ID] = true
		for j, m := range h.Members {
			if strings.TrimSpace(m.ID) == "" {
				return apperrors.NewValidationError(fmt.Sprintf("households[%d].members[%d].id", i, j), "is required")
			}
		}
	}
	return nil
}

// Apply writes every household and member in seed. Members are appended in
// file order; re-applying the same file changes nothing but display names.
func Apply(ctx context.Context, writer portsrepo.MembershipWriter, seed *SeedFile) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, h := range seed.Households {
		household := domain.Household{HouseholdID: h.ID, Name: h.Name, Address: h.Address}
		if err := writer.SaveHousehold(ctx, household); err != nil {
			return fmt.Errorf("failed to seed household %s: %w", h.ID, err)
		}
		for _, m := range h.Members {
			name := m.Name
			if strings.TrimSpace(name) == "" {
				name = m.ID
			}
			if err := writer.SaveMember(ctx, domain.Member{MemberID: m.ID, DisplayName: name}); err != nil {
				return fmt.Errorf("failed to seed member %s: %w", m.ID, err)
			}
			if err := writer.AddMember(ctx, h.ID, m.ID); err != nil {
				return fmt.Errorf("failed to add member %s to household %s: %w", m.ID, h.ID, err)
			}
		}
		logger.Info("Seeded household", slog.String("household_id", h.ID), slog.Int("members", len(h.Members)))
	}
	return nil
}

package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/SscSPs/roomie_ledger/internal/repositories/database/sqlite"
)

type MockMembershipWriter struct {
	mock.Mock
}

var _ portsrepo.MembershipWriter = (*MockMembershipWriter)(nil)

func (m *MockMembershipWriter) SaveHousehold(ctx context.Context, household domain.Household) error {
	return m.Called(ctx, household).Error(0)
}

func (m *MockMembershipWriter) SaveMember(ctx context.Context, member domain.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMembershipWriter) AddMember(ctx context.Context, householdID, memberID string) error {
	return m.Called(ctx, householdID, memberID).Error(0)
}

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const seedYAML = `
households:
  - id: piso-1
    name: Piso Gracia
    address: Carrer Verdi 1
    members:
      - id: ana
        name: Ana
      - id: ben
        name: Ben
      - id: cai
`

func TestLoadSeedFile_YAML(t *testing.T) {
	seed, err := LoadSeedFile(writeSeed(t, "seed.yaml", seedYAML))
	require.NoError(t, err)
	require.Len(t, seed.Households, 1)
	h := seed.Households[0]
	assert.Equal(t, "piso-1", h.ID)
	assert.Equal(t, "Carrer Verdi 1", h.Address)
	require.Len(t, h.Members, 3)
	assert.Equal(t, SeedMember{ID: "ben", Name: "Ben"}, h.Members[1])
}

func TestLoadSeedFile_JSON(t *testing.T) {
	seed, err := LoadSeedFile(writeSeed(t, "seed.json", `{"households":[{"id":"piso-2","name":"Atico","members":[{"id":"dan","name":"Dan"}]}]}`))
	require.NoError(t, err)
	require.Len(t, seed.Households, 1)
	assert.Equal(t, "dan", seed.Households[0].Members[0].ID)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"missing household id", "households:\n  - name: Piso\n", "households[0].id"},
		{"duplicate household", "households:\n  - id: a\n  - id: a\n", "households[1].id"},
		{"missing member id", "households:\n  - id: a\n    members:\n      - name: Ana\n", "households[0].members[0].id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, "seed.yaml", tt.content))
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApply_WritesInOrder(t *testing.T) {
	ctx := context.Background()
	w := new(MockMembershipWriter)
	seed := &SeedFile{Households: []SeedHousehold{{
		ID: "piso-1", Name: "Piso",
		Members: []SeedMember{{ID: "ana", Name: "Ana"}, {ID: "cai"}},
	}}}

	w.On("SaveHousehold", ctx, domain.Household{HouseholdID: "piso-1", Name: "Piso"}).Return(nil).Once()
	w.On("SaveMember", ctx, domain.Member{MemberID: "ana", DisplayName: "Ana"}).Return(nil).Once()
	w.On("AddMember", ctx, "piso-1", "ana").Return(nil).Once()
	w.On("SaveMember", ctx, domain.Member{MemberID: "cai", DisplayName: "cai"}).Return(nil).Once()
	w.On("AddMember", ctx, "piso-1", "cai").Return(nil).Once()

	require.NoError(t, Apply(ctx, w, seed))
	w.AssertExpectations(t)
}

func TestApply_StopsOnError(t *testing.T) {
	ctx := context.Background()
	w := new(MockMembershipWriter)
	boom := errors.New("disk full")
	seed := &SeedFile{Households: []SeedHousehold{{ID: "piso-1", Members: []SeedMember{{ID: "ana"}}}}}

	w.On("SaveHousehold", ctx, mock.Anything).Return(boom).Once()

	err := Apply(ctx, w, seed)
	assert.ErrorIs(t, err, boom)
	w.AssertNotCalled(t, "SaveMember", mock.Anything, mock.Anything)
}

func TestApply_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	repos := sqlite.NewRepositoryProvider(db, fanout.NewHub())

	seed, err := LoadSeedFile(writeSeed(t, "seed.yaml", seedYAML))
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, repos.MembershipRepo, seed))
	// idempotent
	require.NoError(t, Apply(ctx, repos.MembershipRepo, seed))

	members, err := repos.MembershipRepo.GetMembers(ctx, "piso-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Member{
		{MemberID: "ana", DisplayName: "Ana"},
		{MemberID: "ben", DisplayName: "Ben"},
		{MemberID: "cai", DisplayName: "cai"},
	}, members)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/models"
	"github.com/SscSPs/roomie_ledger/internal/utils/mapping"
)

// MembershipRepository resolves households and their members from SQLite.
type MembershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new SQLite-backed membership repository.
func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

var _ portsrepo.MembershipRepositoryFacade = (*MembershipRepository)(nil)

func (r *MembershipRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	var m models.Household
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT household_id, name, address, created_at FROM households WHERE household_id = ?`,
		householdID,
	).Scan(&m.HouseholdID, &m.Name, &m.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewAppError(http.StatusNotFound, "household "+householdID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("failed to get household", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, unavailable("failed to parse household", err)
	}

	members, err := r.GetMembers(ctx, householdID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, mem := range members {
		ids = append(ids, mem.MemberID)
	}
	h := mapping.ToDomainHousehold(m, ids)
	return &h, nil
}

func (r *MembershipRepository) GetMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.member_id, m.display_name, m.created_at
		FROM household_members hm
		JOIN members m ON m.member_id = hm.member_id
		WHERE hm.household_id = ?
		ORDER BY hm.position ASC, m.member_id ASC`,
		householdID,
	)
	if err != nil {
		return nil, unavailable("failed to list members", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m models.Member
		var createdAt string
		if err := rows.Scan(&m.MemberID, &m.DisplayName, &createdAt); err != nil {
			return nil, unavailable("failed to scan member", err)
		}
		members = append(members, mapping.ToDomainMember(m))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to iterate members", err)
	}
	return members, nil
}

func (r *MembershipRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	m := mapping.ToModelHousehold(household)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO households (household_id, name, address, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (household_id) DO UPDATE SET name = excluded.name, address = excluded.address`,
		m.HouseholdID, m.Name, m.Address, formatTime(time.Now()),
	)
	if err != nil {
		return rejected(http.StatusConflict, "failed to save household "+m.HouseholdID, err)
	}
	return nil
}

func (r *MembershipRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (member_id, display_name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (member_id) DO UPDATE SET display_name = excluded.display_name`,
		m.MemberID, m.DisplayName, formatTime(time.Now()),
	)
	if err != nil {
		return rejected(http.StatusConflict, "failed to save member "+m.MemberID, err)
	}
	return nil
}

// AddMember appends memberID to the end of the household's member order.
// Adding an existing member keeps its position.
func (r *MembershipRepository) AddMember(ctx context.Context, householdID, memberID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO household_members (household_id, member_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM household_members WHERE household_id = ?))
		ON CONFLICT (household_id, member_id) DO NOTHING`,
		householdID, memberID, householdID,
	)
	if err != nil {
		return rejected(http.StatusConflict, "failed to add member "+memberID+" to household "+householdID, err)
	}
	return nil
}

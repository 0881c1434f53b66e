package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/models"
	"github.com/SscSPs/roomie_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMembershipRepository struct {
	BaseRepository
}

func newPgxMembershipRepository(pool *pgxpool.Pool) *PgxMembershipRepository {
	return &PgxMembershipRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MembershipRepositoryFacade = (*PgxMembershipRepository)(nil)

// FindHouseholdByID retrieves a household with its ordered member IDs.
func (r *PgxMembershipRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	query := `
		SELECT h.household_id, h.name, h.address, h.created_at,
		       COALESCE(array_agg(hm.member_id ORDER BY hm.position) FILTER (WHERE hm.member_id IS NOT NULL), '{}')
		FROM households h
		LEFT JOIN household_members hm ON hm.household_id = h.household_id
		WHERE h.household_id = $1
		GROUP BY h.household_id;
	`
	var m models.Household
	var memberIDs []string
	err := r.Pool.QueryRow(ctx, query, householdID).Scan(&m.HouseholdID, &m.Name, &m.Address, &m.CreatedAt, &memberIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(http.StatusNotFound, "household "+householdID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("failed to get household "+householdID, err)
	}
	h := mapping.ToDomainHousehold(m, memberIDs)
	return &h, nil
}

// GetMembers lists the household's members in membership order.
func (r *PgxMembershipRepository) GetMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	query := `
		SELECT m.member_id, m.display_name, m.created_at
		FROM household_members hm
		JOIN members m ON m.member_id = hm.member_id
		WHERE hm.household_id = $1
		ORDER BY hm.position ASC, m.member_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, unavailable("failed to list members", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.MemberID, &m.DisplayName, &m.CreatedAt); err != nil {
			return nil, unavailable("failed to scan member", err)
		}
		members = append(members, mapping.ToDomainMember(m))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to iterate members", err)
	}
	return members, nil
}

func (r *PgxMembershipRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	m := mapping.ToModelHousehold(household)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO households (household_id, name, address) VALUES ($1, $2, $3)
		ON CONFLICT (household_id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address;`,
		m.HouseholdID, m.Name, m.Address,
	)
	if err != nil {
		return writeError("failed to save household "+m.HouseholdID, err)
	}
	return nil
}

func (r *PgxMembershipRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO members (member_id, display_name) VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE SET display_name = EXCLUDED.display_name;`,
		m.MemberID, m.DisplayName,
	)
	if err != nil {
		return writeError("failed to save member "+m.MemberID, err)
	}
	return nil
}

// AddMember appends memberID to the household's member order. The household
// row is locked so concurrent adds get distinct positions.
func (r *PgxMembershipRepository) AddMember(ctx context.Context, householdID, memberID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var locked string
	err = tx.QueryRow(ctx, `SELECT household_id FROM households WHERE household_id = $1 FOR UPDATE`, householdID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAppError(http.StatusNotFound, "household "+householdID+" not found", apperrors.ErrNotFound)
	}
	if err != nil {
		return unavailable("failed to lock household "+householdID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO household_members (household_id, member_id, position)
		SELECT $1::text, $2::text, COALESCE(MAX(position), -1) + 1 FROM household_members WHERE household_id = $1
		ON CONFLICT (household_id, member_id) DO NOTHING;`,
		householdID, memberID,
	)
	if err != nil {
		return writeError("failed to add member "+memberID, err)
	}

	return r.Commit(ctx, tx)
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type HouseholdRepository struct {
	db *database.DB
}

func NewHouseholdRepository(db *database.DB) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

func (r *HouseholdRepository) Create(ctx context.Context, household *models.Household) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO household (household_id, name, timezone)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		household.ID, household.Name, household.Timezone,
	).Scan(&household.CreatedAt)
}

func (r *HouseholdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	household := &models.Household{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT household_id, name, timezone, created_at FROM household WHERE household_id = $1`,
		id,
	).Scan(&household.ID, &household.Name, &household.Timezone, &household.CreatedAt)
	if err != nil {
		return nil, err
	}
	return household, nil
}

func (r *HouseholdRepository) List(ctx context.Context) ([]*models.Household, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT household_id, name, timezone, created_at FROM household ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var households []*models.Household
	for rows.Next() {
		household := &models.Household{}
		if err := rows.Scan(&household.ID, &household.Name, &household.Timezone,
			&household.CreatedAt); err != nil {
			return nil, err
		}
		households = append(households, household)
	}
	return households, nil
}

func (r *HouseholdRepository) AddMember(ctx context.Context, member *models.Member) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO member (household_id, user_id, chat_id, display_name, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING member_id, created_at`,
		member.HouseholdID, member.UserID, member.ChatID, member.DisplayName, member.Role,
	).Scan(&member.MemberID, &member.CreatedAt)
}

// GetMemberByUserID resolves the household a Telegram user belongs to.
func (r *HouseholdRepository) GetMemberByUserID(ctx context.Context, userID int64) (*models.Member, error) {
	member := &models.Member{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT member_id, household_id, user_id, chat_id, display_name, role, created_at
		 FROM member WHERE user_id = $1`,
		userID,
	).Scan(&member.MemberID, &member.HouseholdID, &member.UserID, &member.ChatID,
		&member.DisplayName, &member.Role, &member.CreatedAt)
	if err != nil {
		return nil, err
	}
	return member, nil
}

// MoveMember switches a user to another household. Each user belongs to
// exactly one household at a time.
func (r *HouseholdRepository) MoveMember(ctx context.Context, userID int64, householdID uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE member SET household_id = $2, role = $3 WHERE user_id = $1`,
		userID, householdID, models.RoleMember,
	)
	return err
}

func (r *HouseholdRepository) GetMembers(ctx context.Context, householdID uuid.UUID) ([]*models.Member, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT member_id, household_id, user_id, chat_id, display_name, role, created_at
		 FROM member WHERE household_id = $1
		 ORDER BY member_id ASC`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.MemberID, &member.HouseholdID, &member.UserID, &member.ChatID,
			&member.DisplayName, &member.Role, &member.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *HouseholdRepository) GetMemberByID(ctx context.Context, memberID int) (*models.Member, error) {
	member := &models.Member{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT member_id, household_id, user_id, chat_id, display_name, role, created_at
		 FROM member WHERE member_id = $1`,
		memberID,
	).Scan(&member.MemberID, &member.HouseholdID, &member.UserID, &member.ChatID,
		&member.DisplayName, &member.Role, &member.CreatedAt)
	if err != nil {
		return nil, err
	}
	return member, nil
}

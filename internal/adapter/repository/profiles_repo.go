package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProfilesRepo persists profile records keyed by email. Section lists live
// in jsonb columns; a save always assigns a fresh share uuid.
type ProfilesRepo struct {
	pool *pgxpool.Pool
}

func NewProfilesRepo(pool *pgxpool.Pool) *ProfilesRepo {
	return &ProfilesRepo{pool: pool}
}

// Upsert inserts or fully replaces the record stored under rec.Email and
// returns the post-update row.
func (r *ProfilesRepo) Upsert(ctx context.Context, rec model.ProfileRecord) (*model.ProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("profiles DB not available")
	}

	rec.UUID = uuid.NewString()

	eduB, _ := json.Marshal(rec.Education)
	expB, _ := json.Marshal(rec.Experience)
	skillsB, _ := json.Marshal(rec.Skills)
	certsB, _ := json.Marshal(rec.Certificates)

	row := r.pool.QueryRow(ctx, `INSERT INTO profiles (email, name, phone, education, experience, skills, certificates, template, share_uuid, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone,
			education = EXCLUDED.education, experience = EXCLUDED.experience,
			skills = EXCLUDED.skills, certificates = EXCLUDED.certificates,
			template = EXCLUDED.template, share_uuid = EXCLUDED.share_uuid, updated_at = now()
		RETURNING email, name, phone, education, experience, skills, certificates, template, share_uuid`,
		rec.Email, rec.Name, rec.Phone, eduB, expB, skillsB, certsB, rec.Template, rec.UUID)

	return scanProfile(row)
}

// GetByEmail returns the record stored under email, or nil when absent.
func (r *ProfilesRepo) GetByEmail(ctx context.Context, email string) (*model.ProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("profiles DB not available")
	}

	row := r.pool.QueryRow(ctx, `SELECT email, name, phone, education, experience, skills, certificates, template, share_uuid
		FROM profiles WHERE email = $1`, email)
	rec, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// GetByShareID returns the record matching the given share uuid, or nil.
func (r *ProfilesRepo) GetByShareID(ctx context.Context, shareID string) (*model.ProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("profiles DB not available")
	}

	row := r.pool.QueryRow(ctx, `SELECT email, name, phone, education, experience, skills, certificates, template, share_uuid
		FROM profiles WHERE share_uuid = $1`, shareID)
	rec, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func scanProfile(row pgx.Row) (*model.ProfileRecord, error) {
	var rec model.ProfileRecord
	var eduB, expB, skillsB, certsB []byte

	if err := row.Scan(&rec.Email, &rec.Name, &rec.Phone, &eduB, &expB, &skillsB, &certsB, &rec.Template, &rec.UUID); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(eduB, &rec.Education); err != nil {
		return nil, fmt.Errorf("decode education: %w", err)
	}
	if err := json.Unmarshal(expB, &rec.Experience); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	if err := json.Unmarshal(skillsB, &rec.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(certsB, &rec.Certificates); err != nil {
		return nil, fmt.Errorf("decode certificates: %w", err)
	}
	return &rec, nil
}

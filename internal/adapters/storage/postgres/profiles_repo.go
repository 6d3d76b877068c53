package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-adoption/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, nickname, avatar_url, avatar_key, updated_at
		FROM profiles
		WHERE id = $1
	`, userID)

	var p profiles.Profile
	if err := row.Scan(&p.UserID, &p.Email, &p.Nickname, &p.AvatarURL, &p.AvatarKey, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, err
	}
	return p, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, nickname, avatar_url, avatar_key, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE
		SET
			email = EXCLUDED.email,
			nickname = EXCLUDED.nickname,
			avatar_url = EXCLUDED.avatar_url,
			avatar_key = EXCLUDED.avatar_key,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.Email,
		p.Nickname,
		p.AvatarURL,
		p.AvatarKey,
		p.UpdatedAt,
	)
	return err
}

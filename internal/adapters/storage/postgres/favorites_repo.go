package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-adoption/internal/domain/favorites"
)

type FavoritesRepo struct {
	db *sql.DB
}

func NewFavoritesRepo(db *sql.DB) *FavoritesRepo {
	return &FavoritesRepo{db: db}
}

func (r *FavoritesRepo) Get(ctx context.Context, userID, animalID string) (favorites.Favorite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, animal_id, is_favorite, email, created_at
		FROM favorites
		WHERE user_id = $1 AND animal_id = $2
	`, userID, animalID)

	var f favorites.Favorite
	if err := row.Scan(&f.UserID, &f.AnimalID, &f.IsFavorite, &f.Email, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return favorites.Favorite{}, favorites.ErrNotFound
		}
		return favorites.Favorite{}, err
	}
	return f, nil
}

func (r *FavoritesRepo) Upsert(ctx context.Context, f favorites.Favorite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, animal_id, is_favorite, email, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, animal_id) DO UPDATE
		SET is_favorite = EXCLUDED.is_favorite,
			email = EXCLUDED.email
	`,
		f.UserID,
		f.AnimalID,
		f.IsFavorite,
		f.Email,
		f.CreatedAt,
	)
	return err
}

func (r *FavoritesRepo) Delete(ctx context.Context, userID, animalID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND animal_id = $2
	`, userID, animalID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return favorites.ErrNotFound
	}
	return nil
}

func (r *FavoritesRepo) ListByUser(ctx context.Context, userID string) ([]favorites.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, animal_id, is_favorite, email, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorites.Favorite, 0)
	for rows.Next() {
		var f favorites.Favorite
		if err := rows.Scan(&f.UserID, &f.AnimalID, &f.IsFavorite, &f.Email, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

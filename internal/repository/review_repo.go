package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

type ReviewRepository struct {
	DB *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	query := `INSERT INTO reviews (id, product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.Exec(ctx, query, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment)
	return err
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1`
	return scanReview(r.DB.QueryRow(ctx, query, id))
}

// GetByProductAndUser returns the one review a user left on a product.
func (r *ReviewRepository) GetByProductAndUser(ctx context.Context, productID, userID string) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id=$1 AND user_id=$2`
	return scanReview(r.DB.QueryRow(ctx, query, productID, userID))
}

func (r *ReviewRepository) Update(ctx context.Context, id string, rating int, comment string) (*model.Review, error) {
	query := `UPDATE reviews SET rating=$2, comment=$3, updated_at=now()
		WHERE id=$1 RETURNING ` + reviewColumns
	return scanReview(r.DB.QueryRow(ctx, query, id, rating, comment))
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rv)
	}
	return list, rows.Err()
}

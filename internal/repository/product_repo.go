package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

// sortColumns whitelists client-supplied sort keys.
var sortColumns = map[string]string{
	"_id":       "p.id",
	"name":      "p.name",
	"price":     "p.price",
	"sold":      "p.sold",
	"createdAt": "p.created_at",
}

func orderClause(sortBy, order string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "p.id"
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

const productColumns = `p.id, p.name, p.description, p.price, p.category_id,
	p.quantity, p.sold, p.shipping, p.created_at, p.updated_at,
	c.id, c.name, c.created_at, c.updated_at`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id `

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var cat model.Category
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.Quantity, &p.Sold, &p.Shipping, &p.CreatedAt, &p.UpdatedAt,
		&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Category = &cat
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()
	list := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products
		(id, name, description, price, category_id, quantity, shipping, photo, photo_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price,
		p.CategoryID, p.Quantity, p.Shipping, p.Photo, nullIfEmpty(p.PhotoType))
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + `WHERE p.id=$1`
	return scanProduct(r.DB.QueryRow(ctx, query, id))
}

// Update writes the mutable fields; photo columns are only touched when new
// bytes are supplied.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products
		SET name=$2, description=$3, price=$4, category_id=$5, quantity=$6,
		    shipping=$7,
		    photo      = CASE WHEN $8::bytea IS NOT NULL THEN $8 ELSE photo END,
		    photo_type = CASE WHEN $8::bytea IS NOT NULL THEN $9 ELSE photo_type END,
		    updated_at = now()
		WHERE id=$1`
	tag, err := r.DB.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price,
		p.CategoryID, p.Quantity, p.Shipping, p.Photo, nullIfEmpty(p.PhotoType))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns products sorted by a whitelisted column, photo omitted.
func (r *ProductRepository) List(ctx context.Context, sortBy, order string, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom +
		`ORDER BY ` + orderClause(sortBy, order) + ` LIMIT $1`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListRelated returns other products sharing the given product's category.
func (r *ProductRepository) ListRelated(ctx context.Context, productID, categoryID string, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom +
		`WHERE p.id <> $1 AND p.category_id = $2 LIMIT $3`
	rows, err := r.DB.Query(ctx, query, productID, categoryID, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// UsedCategories returns the categories at least one product references.
func (r *ProductRepository) UsedCategories(ctx context.Context) ([]model.Category, error) {
	query := `SELECT DISTINCT c.id, c.name, c.created_at, c.updated_at
		FROM categories c JOIN products p ON p.category_id = c.id
		ORDER BY c.name`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Search matches product names case-insensitively, optionally narrowed to a
// category.
func (r *ProductRepository) Search(ctx context.Context, term, categoryID string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + `WHERE p.name ILIKE $1`
	args := []interface{}{"%" + term + "%"}
	if categoryID != "" {
		query += ` AND p.category_id = $2`
		args = append(args, categoryID)
	}
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// SearchFilter describes the shop-page filter request: category ids and an
// inclusive price range, with paging.
type SearchFilter struct {
	CategoryIDs []string
	PriceMin    *float64
	PriceMax    *float64
	SortBy      string
	Order       string
	Limit       int
	Skip        int
}

// ListBySearch applies the shop filters and returns a page of products.
func (r *ProductRepository) ListBySearch(ctx context.Context, f SearchFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + `WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if len(f.CategoryIDs) > 0 {
		query += fmt.Sprintf(` AND p.category_id = ANY($%d)`, idx)
		args = append(args, f.CategoryIDs)
		idx++
	}
	if f.PriceMin != nil {
		query += fmt.Sprintf(` AND p.price >= $%d`, idx)
		args = append(args, *f.PriceMin)
		idx++
	}
	if f.PriceMax != nil {
		query += fmt.Sprintf(` AND p.price <= $%d`, idx)
		args = append(args, *f.PriceMax)
		idx++
	}

	query += ` ORDER BY ` + orderClause(f.SortBy, f.Order)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, f.Limit, f.Skip)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// GetPhoto loads just the image bytes and content type.
func (r *ProductRepository) GetPhoto(ctx context.Context, id string) ([]byte, string, error) {
	var photo []byte
	var photoType *string
	query := `SELECT photo, photo_type FROM products WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&photo, &photoType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if photo == nil {
		return nil, "", ErrNotFound
	}
	ct := ""
	if photoType != nil {
		ct = *photoType
	}
	return photo, ct, nil
}

// DecreaseQuantity decrements stock and bumps sold for every ordered item in
// one transaction.
func (r *ProductRepository) DecreaseQuantity(ctx context.Context, items []model.OrderItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, item := range items {
		query := `UPDATE products SET quantity = quantity - $2, sold = sold + $2, updated_at = now() WHERE id = $1`
		if _, err := tx.Exec(ctx, query, item.ProductID, item.Count); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

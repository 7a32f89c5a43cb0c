package productrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

// PostgresRepository searches the products table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, name, brand, product_type, key_ingredients, skin_types, concerns, price_range, price_usd, size_ml, rating, description, external_url`

// Search runs the query against active products, best rated first.
func (r *PostgresRepository) Search(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	sqlText, args := buildSearch(query)
	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, rows.Err()
}

func buildSearch(q catalog.ProductQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "is_active = TRUE")
	if q.ProductType != "" {
		where = append(where, "product_type = "+arg(q.ProductType))
	}
	if q.SkinType != "" {
		where = append(where, fmt.Sprintf("(skin_types @> ARRAY[%s]::text[] OR skin_types @> ARRAY['all']::text[])", arg(q.SkinType)))
	}
	if q.PriceRange != "" {
		where = append(where, "price_range = "+arg(q.PriceRange))
	}
	if q.Brand != "" {
		where = append(where, "brand ILIKE "+arg("%"+q.Brand+"%"))
	}
	if len(q.Ingredients) > 0 {
		where = append(where, "key_ingredients && "+arg(q.Ingredients)+"::text[]")
	}
	if q.Query != "" {
		p := arg("%" + q.Query + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR brand ILIKE %s OR description ILIKE %s)", p, p, p))
	}

	sqlText := "SELECT " + selectColumns + " FROM products WHERE " + strings.Join(where, " AND ") + " ORDER BY rating DESC NULLS LAST, id"
	if q.Limit > 0 {
		sqlText += " LIMIT " + arg(q.Limit)
	}
	return sqlText, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var (
		p           catalog.Product
		concerns    []string
		priceRange  sql.NullString
		priceUSD    sql.NullFloat64
		sizeML      sql.NullInt32
		rating      sql.NullFloat64
		description sql.NullString
		externalURL sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.ProductType,
		&p.KeyIngredients,
		&p.SkinTypes,
		&concerns,
		&priceRange,
		&priceUSD,
		&sizeML,
		&rating,
		&description,
		&externalURL,
	); err != nil {
		return catalog.Product{}, err
	}
	p.Concerns = concerns
	p.PriceRange = priceRange.String
	p.PriceUSD = priceUSD.Float64
	p.SizeML = int(sizeML.Int32)
	p.Rating = rating.Float64
	p.Description = description.String
	p.ExternalURL = externalURL.String
	return p, nil
}

var _ catalog.ProductRepository = (*PostgresRepository)(nil)

package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `p."productID", p."productName", p."productPrice", p."discountPercent", p."compareAtPrice",
        p."flashDeal", p."flashEndsAt", p."specialOffer", p."specialEndsAt", p."campaignLabel",
        p."productDesc", p.category, p."productPic", p."createdAt", p."updatedAt"`

	listQuery = `SELECT ` + productColumns + ` FROM products p ORDER BY p."productID"`

	getByIDQuery = `SELECT ` + productColumns + ` FROM products p WHERE p."productID" = $1`

	listByIDsQuery = `
        SELECT ` + productColumns + `
        FROM products p
        WHERE p."productID" = ANY($1::int[])
        ORDER BY array_position($1::int[], p."productID")
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(listQuery)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getByIDQuery, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var discount, compareAt sql.NullInt64
	var flashDeal, specialOffer sql.NullBool
	var flashEnds, specialEnds, label, desc sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.Price, &discount, &compareAt,
		&flashDeal, &flashEnds, &specialOffer, &specialEnds, &label,
		&desc, &p.Category, &p.Pic, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	if discount.Valid {
		p.DiscountPercent = int(discount.Int64)
	}
	if compareAt.Valid {
		v := int(compareAt.Int64)
		p.CompareAtPrice = &v
	}
	p.FlashDeal = flashDeal.Valid && flashDeal.Bool
	p.FlashEndsAt = flashEnds.String
	p.SpecialOffer = specialOffer.Valid && specialOffer.Bool
	p.SpecialEndsAt = specialEnds.String
	p.CampaignLabel = label.String
	p.Description = desc.String
	return p, nil
}

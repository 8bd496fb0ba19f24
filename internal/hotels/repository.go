package hotels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// HotelRepository defines the data access contract for hotel records.
// All SQL lives in the concrete implementation.
type HotelRepository interface {
	Create(ctx context.Context, hotel *Hotel) error
	FindByID(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context, filter ListFilter) ([]Hotel, error)
	Update(ctx context.Context, hotel *Hotel) error
	Delete(ctx context.Context, id string) error
	CountByType(ctx context.Context, types []string) ([]TypeCount, error)
	CountByCity(ctx context.Context, cities []string) ([]CityCount, error)
}

// hotelRepository implements HotelRepository with hand-written MariaDB queries.
type hotelRepository struct {
	db *sql.DB
}

// NewHotelRepository creates a new hotel repository backed by the given DB pool.
func NewHotelRepository(db *sql.DB) HotelRepository {
	return &hotelRepository{db: db}
}

// hotelColumns is the scan order shared by all single- and multi-row reads.
const hotelColumns = `id, name, type, city, address, distance, title, description,
	price, popular, created_at, updated_at`

// Create inserts a new hotel row.
func (r *hotelRepository) Create(ctx context.Context, hotel *Hotel) error {
	query := `INSERT INTO hotels (id, name, type, city, address, distance, title,
	                              description, price, popular, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Type,
		hotel.City,
		hotel.Address,
		hotel.Distance,
		hotel.Title,
		hotel.Description,
		hotel.Price,
		hotel.Popular,
		hotel.CreatedAt,
		hotel.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting hotel: %w", err)
	}

	return nil
}

// FindByID retrieves a hotel by its UUID.
// Returns apperror.NotFound if no hotel exists with this ID.
func (r *hotelRepository) FindByID(ctx context.Context, id string) (*Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`

	hotel := &Hotel{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.Type,
		&hotel.City,
		&hotel.Address,
		&hotel.Distance,
		&hotel.Title,
		&hotel.Description,
		&hotel.Price,
		&hotel.Popular,
		&hotel.CreatedAt,
		&hotel.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("hotel not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying hotel by id: %w", err)
	}

	return hotel, nil
}

// List returns hotels matching the filter, newest first.
func (r *hotelRepository) List(ctx context.Context, filter ListFilter) ([]Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels`

	var conds []string
	var args []any

	if filter.Popular != nil {
		conds = append(conds, "popular = ?")
		args = append(args, *filter.Popular)
	}
	if len(filter.Types) > 0 {
		conds = append(conds, "type IN ("+placeholders(len(filter.Types))+")")
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if len(filter.Cities) > 0 {
		conds = append(conds, "city IN ("+placeholders(len(filter.Cities))+")")
		for _, c := range filter.Cities {
			args = append(args, c)
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hotels: %w", err)
	}
	defer rows.Close()

	var hotels []Hotel
	for rows.Next() {
		var h Hotel
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Type, &h.City, &h.Address, &h.Distance,
			&h.Title, &h.Description, &h.Price, &h.Popular, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning hotel row: %w", err)
		}
		hotels = append(hotels, h)
	}

	return hotels, rows.Err()
}

// Update replaces the mutable fields of a hotel row.
// Returns apperror.NotFound if no row matched the ID.
func (r *hotelRepository) Update(ctx context.Context, hotel *Hotel) error {
	query := `UPDATE hotels
	          SET name = ?, type = ?, city = ?, address = ?, distance = ?,
	              title = ?, description = ?, price = ?, popular = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		hotel.Name,
		hotel.Type,
		hotel.City,
		hotel.Address,
		hotel.Distance,
		hotel.Title,
		hotel.Description,
		hotel.Price,
		hotel.Popular,
		hotel.UpdatedAt,
		hotel.ID,
	)
	if err != nil {
		return fmt.Errorf("updating hotel: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("hotel not found")
	}

	return nil
}

// Delete removes a hotel row.
// Returns apperror.NotFound if no row matched the ID.
func (r *hotelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting hotel: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("hotel not found")
	}

	return nil
}

// CountByType returns hotel counts grouped by type, optionally restricted
// to the given types.
func (r *hotelRepository) CountByType(ctx context.Context, types []string) ([]TypeCount, error) {
	query := `SELECT type, COUNT(*) FROM hotels`
	var args []any

	if len(types) > 0 {
		query += " WHERE type IN (" + placeholders(len(types)) + ")"
		for _, t := range types {
			args = append(args, t)
		}
	}
	query += " GROUP BY type ORDER BY type"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting hotels by type: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

// CountByCity returns hotel counts grouped by city, optionally restricted
// to the given cities.
func (r *hotelRepository) CountByCity(ctx context.Context, cities []string) ([]CityCount, error) {
	query := `SELECT city, COUNT(*) FROM hotels`
	var args []any

	if len(cities) > 0 {
		query += " WHERE city IN (" + placeholders(len(cities)) + ")"
		for _, c := range cities {
			args = append(args, c)
		}
	}
	query += " GROUP BY city ORDER BY city"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting hotels by city: %w", err)
	}
	defer rows.Close()

	var counts []CityCount
	for rows.Next() {
		var cc CityCount
		if err := rows.Scan(&cc.City, &cc.Count); err != nil {
			return nil, fmt.Errorf("scanning city count: %w", err)
		}
		counts = append(counts, cc)
	}

	return counts, rows.Err()
}

// placeholders returns n comma-separated "?" markers for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mlukasik/swift-registry/internal/database"
	"github.com/mlukasik/swift-registry/internal/model"
)

var (
	ErrNotFound  = errors.New("swift code not found")
	ErrDuplicate = errors.New("swift code already exists")
)

// Filter narrows List and Count queries. A nil IsHeadquarter means no
// headquarter filter.
type Filter struct {
	Country       string
	IsHeadquarter *bool
	Skip          int
	Limit         int
}

// SwiftRepository defines the interface for SWIFT record persistence.
type SwiftRepository interface {
	GetByCode(ctx context.Context, code string) (*model.SwiftRecord, error)
	List(ctx context.Context, f Filter) ([]model.SwiftRecord, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Create(ctx context.Context, rec *model.SwiftRecord) error
	CreateBatch(ctx context.Context, recs []*model.SwiftRecord) error
	Delete(ctx context.Context, code string) error
}

// SQLSwiftRepository implements SwiftRepository against Trino via database/sql.
type SQLSwiftRepository struct {
	db  *sql.DB
	cfg database.Config
}

// NewSQLSwiftRepository creates a new repository instance backed by Trino.
func NewSQLSwiftRepository(db *database.Database) SwiftRepository {
	return &SQLSwiftRepository{db: db.DB, cfg: db.Config}
}

const recordColumns = "swift_code, bank_name, address, country_iso_code, country_name, is_headquarter"

func (r *SQLSwiftRepository) tableName() string {
	return fmt.Sprintf("%s.%s.%s", r.cfg.Catalog, r.cfg.Schema, r.cfg.TableName)
}

// Create adds a single SWIFT record. The code must not already exist.
func (r *SQLSwiftRepository) Create(ctx context.Context, rec *model.SwiftRecord) error {
	if err := r.checkDuplicate(ctx, rec.SwiftCode); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)", r.tableName(), recordColumns)
	_, err := r.db.ExecContext(ctx, query,
		rec.SwiftCode,
		rec.BankName,
		rec.Address,
		rec.CountryISO2,
		rec.CountryName,
		rec.IsHeadquarter,
	)
	if err != nil {
		return fmt.Errorf("trino insert failed: %w", err)
	}
	return nil
}

const batchSize = 100

// CreateBatch inserts records in chunks with a single multi-row INSERT per
// chunk. Used by the startup bulk load only; it does no duplicate checking.
func (r *SQLSwiftRepository) CreateBatch(ctx context.Context, recs []*model.SwiftRecord) error {
	if len(recs) == 0 {
		return nil
	}

	for i := 0; i < len(recs); i += batchSize {
		end := i + batchSize
		if end > len(recs) {
			end = len(recs)
		}
		chunk := recs[i:end]

		var sb strings.Builder
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", r.tableName(), recordColumns)
		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*6)
		for _, rec := range chunk {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				rec.SwiftCode,
				rec.BankName,
				rec.Address,
				rec.CountryISO2,
				rec.CountryName,
				rec.IsHeadquarter,
			)
		}
		sb.WriteString(strings.Join(placeholders, ","))

		if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("trino batch insert failed for rows %d-%d: %w", i+1, end, err)
		}
	}

	return nil
}

// GetByCode retrieves one SWIFT record.
func (r *SQLSwiftRepository) GetByCode(ctx context.Context, code string) (*model.SwiftRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE swift_code = ?", recordColumns, r.tableName())
	row := r.db.QueryRowContext(ctx, query, code)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trino query failed: %w", err)
	}
	return rec, nil
}

// List retrieves records matching the filter, ordered by code for stable
// pagination.
func (r *SQLSwiftRepository) List(ctx context.Context, f Filter) ([]model.SwiftRecord, error) {
	where, args := buildWhere(f)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY swift_code OFFSET %d LIMIT %d",
		recordColumns, r.tableName(), where, f.Skip, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trino query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.SwiftRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("trino scan failed: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Count returns the number of records matching the filter.
func (r *SQLSwiftRepository) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := buildWhere(f)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.tableName(), where)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("trino count failed: %w", err)
	}
	return count, nil
}

// Delete removes a SWIFT record.
func (r *SQLSwiftRepository) Delete(ctx context.Context, code string) error {
	if err := r.checkExists(ctx, code); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE swift_code = ?", r.tableName())
	if _, err := r.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("trino delete failed: %w", err)
	}
	return nil
}

// Helper methods

func buildWhere(f Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if f.Country != "" {
		clauses = append(clauses, "country_iso_code = ?")
		args = append(args, f.Country)
	}
	if f.IsHeadquarter != nil {
		clauses = append(clauses, "is_headquarter = ?")
		args = append(args, *f.IsHeadquarter)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *SQLSwiftRepository) checkDuplicate(ctx context.Context, code string) error {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE swift_code = ? LIMIT 1", r.tableName())
	var exists int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	if err == nil {
		return ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("trino check duplicate failed: %w", err)
	}
	return nil
}

func (r *SQLSwiftRepository) checkExists(ctx context.Context, code string) error {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE swift_code = ? LIMIT 1", r.tableName())
	var exists int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("trino check exists failed: %w", err)
	}
	return nil
}

func scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*model.SwiftRecord, error) {
	var rec model.SwiftRecord
	err := scanner.Scan(
		&rec.SwiftCode,
		&rec.BankName,
		&rec.Address,
		&rec.CountryISO2,
		&rec.CountryName,
		&rec.IsHeadquarter,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

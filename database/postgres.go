package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/mindsgn-studio/price-watch/internal/model"
)

// PostgresStore keeps price history in a single table with the same columns
// as the Mongo documents.
type PostgresStore struct {
	db    *sql.DB
	name  string
	table string
}

func NewPostgresStore(parentCtx context.Context, dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	ctx, cancel := context.WithTimeout(parentCtx, DefaultConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := &PostgresStore{db: db, name: table, table: pq.QuoteIdentifier(table)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id      BIGSERIAL PRIMARY KEY,
			product TEXT NOT NULL,
			price   TEXT NOT NULL,
			url     TEXT NOT NULL,
			date    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(s.name+"_product_url_date_idx") +
			` ON ` + s.table + ` (product, url, date DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) FindLatest(parentCtx context.Context, product, url string, from, to time.Time) (*model.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	query := `
	SELECT id, product, price, url, date
	FROM ` + s.table + `
	WHERE product = $1 AND url = $2 AND date >= $3 AND date < $4
	ORDER BY date DESC
	LIMIT 1`

	var (
		id  int64
		rec model.PriceRecord
	)
	err := s.db.QueryRowContext(ctx, query, product, url, from.UTC(), to.UTC()).
		Scan(&id, &rec.Product, &rec.Price, &rec.URL, &rec.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find price: %w", err)
	}

	rec.ID = strconv.FormatInt(id, 10)
	rec.Date = rec.Date.UTC()
	return &rec, nil
}

func (s *PostgresStore) Insert(parentCtx context.Context, rec *model.PriceRecord) error {
	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	sqlStatement := `
	INSERT INTO ` + s.table + ` (product, price, url, date)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, sqlStatement, rec.Product, rec.Price, rec.URL, rec.Date.UTC()).Scan(&id); err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	rec.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *PostgresStore) UpdatePrice(parentCtx context.Context, id, price string, date time.Time) error {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("price id %q: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	sqlStatement := `UPDATE ` + s.table + ` SET price = $1, date = $2 WHERE id = $3`
	res, err := s.db.ExecContext(ctx, sqlStatement, price, date.UTC(), rowID)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update price %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

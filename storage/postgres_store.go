package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

// PostgresStore persists consumer-side listings to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, waits out database startup, runs
// schema migrations, and returns a ready-to-use store.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	wait := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: time.Second, Logger: logger}
	if err := wait.Do("postgres-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS open_houses (
			id              SERIAL PRIMARY KEY,
			address         TEXT         NOT NULL,
			price           BIGINT       NOT NULL DEFAULT 0,
			beds            INTEGER      NOT NULL DEFAULT 0,
			baths           NUMERIC(4,1) NOT NULL DEFAULT 0,
			latitude        DOUBLE PRECISION NOT NULL,
			longitude       DOUBLE PRECISION NOT NULL,
			open_house_time TEXT         NOT NULL DEFAULT '',
			description     TEXT         NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_open_houses_price    ON open_houses(price);
		CREATE INDEX IF NOT EXISTS idx_open_houses_latitude ON open_houses(latitude);
		CREATE INDEX IF NOT EXISTS idx_open_houses_longitude ON open_houses(longitude);
	`)
	return err
}

// Clear deletes all listings and returns how many were removed.
func (ps *PostgresStore) Clear() (int, error) {
	res, err := ps.db.Exec("DELETE FROM open_houses")
	if err != nil {
		return 0, fmt.Errorf("postgres: clear: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// BulkInsert batch-inserts listings.
func (ps *PostgresStore) BulkInsert(listings []*models.StoredListing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := ps.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.StoredListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx, l := range batch {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			l.Address, l.Price, l.Beds, l.Baths, l.Latitude, l.Longitude,
			l.OpenHouseTime, l.Description)
	}

	query := fmt.Sprintf(`
		INSERT INTO open_houses (address, price, beds, baths, latitude, longitude, open_house_time, description)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// List retrieves all stored listings ordered by id.
func (ps *PostgresStore) List() ([]*models.StoredListing, error) {
	rows, err := ps.db.Query(`
		SELECT id, address, price, beds, baths, latitude, longitude, open_house_time, description
		FROM open_houses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	var listings []*models.StoredListing
	for rows.Next() {
		l := &models.StoredListing{}
		if err := rows.Scan(
			&l.ID, &l.Address, &l.Price, &l.Beds, &l.Baths,
			&l.Latitude, &l.Longitude, &l.OpenHouseTime, &l.Description,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Close closes the underlying connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	// PostgreSQL driver
	_ "github.com/lib/pq"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vova4o/labconsole/package/logger"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Storage keeps console preferences that must survive a restart
type Storage struct {
	db     *sql.DB
	driver string
	logger *logger.Logger
}

// NewStorage opens the preference database and creates its table
func NewStorage(driver, dsn string, logger *logger.Logger) (*Storage, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported preference store driver %q", driver)
	}
	if dsn == "" && driver == DriverSQLite {
		dsn = "console.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}

	storage := newWithDB(db, driver, logger)
	if err := storage.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Preference store initialized successfully (" + driver + ")")
	return storage, nil
}

func newWithDB(db *sql.DB, driver string, logger *logger.Logger) *Storage {
	return &Storage{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

func (s *Storage) migrate(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return errors.Wrap(err, "failed to create preferences table")
	}
	return nil
}

// placeholder returns the bind parameter syntax of the driver
func (s *Storage) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// GetPreference reads a preference, ok is false when it was never set
func (s *Storage) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := "SELECT value FROM preferences WHERE key = " + s.placeholder(1)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.Debug("No preference stored for " + key)
			return "", false, nil
		}
		s.logger.Error("Failed to read preference " + key + ": " + err.Error())
		return "", false, errors.Wrapf(err, "read preference %s", key)
	}

	return value, true, nil
}

// SetPreference inserts or replaces a preference
func (s *Storage) SetPreference(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`INSERT INTO preferences (key, value) VALUES (%s, %s)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.placeholder(1), s.placeholder(2))

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.Error("Failed to store preference " + key + ": " + err.Error())
		return errors.Wrapf(err, "store preference %s", key)
	}

	s.logger.Debug("Preference " + key + " stored")
	return nil
}

// DeletePreference removes a preference, deleting a missing key is not an error
func (s *Storage) DeletePreference(ctx context.Context, key string) error {
	query := "DELETE FROM preferences WHERE key = " + s.placeholder(1)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		s.logger.Error("Failed to delete preference " + key + ": " + err.Error())
		return errors.Wrapf(err, "delete preference %s", key)
	}

	s.logger.Debug("Preference " + key + " deleted")
	return nil
}

// Close releases the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/trinodb/trino-go-client/trino" // Trino driver
)

// Config holds configuration for a Trino database connection.
type Config struct {
	ServerURI       string        `koanf:"server_uri"`
	Catalog         string        `koanf:"catalog"`
	Schema          string        `koanf:"schema"`
	TableName       string        `koanf:"table_name"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// Database provides a Trino database connection.
type Database struct {
	*sql.DB
	Config Config
}

// New initializes a Trino database connection and bootstraps the schema.
func New(config Config) (*Database, error) {
	dsn := fmt.Sprintf("%s?catalog=%s&schema=%s", config.ServerURI, config.Catalog, config.Schema)

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Trino connection: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Trino: %w", err)
	}

	database := &Database{DB: db, Config: config}

	// Bootstrap the schema when a schema file ships alongside the binary.
	if err := database.ExecuteSchema("schema.sql"); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return database, nil
}

// ExecuteSchema loads and executes a schema file statement by statement
// (Trino does not support multi-statement execution).
func (db *Database) ExecuteSchema(filePath string) error {
	schemaSQL, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	queries := strings.Split(string(schemaSQL), ";")
	for _, query := range queries {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	return nil
}

package config

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

// ConnectDB opens the DuckDB database at path (in-memory when empty) and
// bootstraps the schema. Idempotent.
func ConnectDB(path string) *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// DuckDB runs in process; a single writer connection avoids write
	// conflicts between ingestion and queries.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := bootstrapSchema(ctx, db); err != nil {
		log.Fatalf("failed to bootstrap schema: %v", err)
	}

	DB = db
	log.Println("connected to database")
	return DB
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}

var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS file_id_seq`,
	`CREATE SEQUENCE IF NOT EXISTS clipproject_id_seq`,
	`CREATE TABLE IF NOT EXISTS project (
		project_id VARCHAR PRIMARY KEY,
		name VARCHAR,
		registry VARCHAR NOT NULL,
		proponent VARCHAR,
		protocol VARCHAR[],
		category VARCHAR[],
		status VARCHAR,
		country VARCHAR,
		listed_at DATE,
		is_compliance BOOLEAN,
		retired BIGINT,
		issued BIGINT,
		project_url VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS credit (
		id BIGINT PRIMARY KEY,
		project_id VARCHAR,
		quantity BIGINT NOT NULL DEFAULT 0,
		vintage INTEGER,
		transaction_date DATE,
		transaction_type VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS clip (
		id BIGINT PRIMARY KEY,
		date DATE,
		title VARCHAR,
		url VARCHAR,
		source VARCHAR,
		tags VARCHAR[],
		notes VARCHAR,
		is_waybacked BOOLEAN,
		type VARCHAR NOT NULL DEFAULT 'article'
	)`,
	`CREATE TABLE IF NOT EXISTS clipproject (
		id BIGINT DEFAULT nextval('clipproject_id_seq'),
		clip_id BIGINT,
		project_id VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS file (
		id BIGINT PRIMARY KEY,
		url VARCHAR NOT NULL,
		content_hash VARCHAR,
		status VARCHAR NOT NULL,
		error VARCHAR,
		recorded_at TIMESTAMP NOT NULL,
		category VARCHAR NOT NULL
	)`,
}

func bootstrapSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

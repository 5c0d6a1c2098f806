// migrate-runs copies recorded generation runs from a SQLite run store into
// PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-runs \
//	    -sqlite data/runs.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user wfcgen \
//	    -pg-password wfcgen \
//	    -pg-database wfcgen
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lawnchairsociety/wfcgen/internal/config"
	"github.com/lawnchairsociety/wfcgen/internal/store"
)

func main() {
	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/runs.db", "Path to SQLite run store")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "wfcgen", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "wfcgen", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "wfcgen", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be copied without making changes")
	flag.Parse()

	log.Println("Run store migration: SQLite to PostgreSQL")
	log.Println("=========================================")

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite run store not found: %v", err)
	}

	log.Printf("Opening SQLite run store: %s", *sqlitePath)
	src, err := store.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite run store: %v", err)
	}
	defer src.Close()

	log.Printf("Opening PostgreSQL run store: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := store.OpenWithConfig(config.StoreConfig{
		Driver: string(store.DialectPostgres),
		DSN:    postgresDSN(*pgHost, *pgPort, *pgUser, *pgPassword, *pgDatabase, *pgSSLMode),
	})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL run store: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	res, err := store.CopyRuns(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d runs: %v", res.Copied, err)
	}

	log.Println("=========================================")
	log.Printf("Migration complete! Copied %d runs, skipped %d already present", res.Copied, res.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

func postgresDSN(host string, port int, user, password, database, sslMode string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslMode,
	)
}

package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	var prefix string
	if env == "prod" {
		prefix = ""
	} else {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix, children first.
	tables := []string{
		"reactions",
		"comments",
		"revisions",
		"article_tags",
		"article_editors",
		"article_reviewers",
		"tags",
		"articles",
		"files",
		"folders",
		"users",
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s%s CASCADE", prefix, table)
		if _, err := db.Exec(dropSQL); err != nil {
			log.Fatalf("Failed to drop %s%s: %v", prefix, table, err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}

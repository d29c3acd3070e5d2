package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Quick connectivity and snapshot-table inspection for operators.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "whiteboard"),
		getEnv("DB_SSLMODE", "disable"),
		getEnv("DB_TIMEZONE", "UTC"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Connected to database")
	fmt.Println()

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_name = 'board_snapshots'
		)
	`
	if err := db.Raw(query).Scan(&exists).Error; err != nil {
		log.Fatal("Failed to check board_snapshots table:", err)
	}

	fmt.Printf("board_snapshots table exists: %v\n", exists)
	fmt.Println()

	if !exists {
		fmt.Println("board_snapshots table does NOT exist")
		fmt.Println("run the server once to auto-migrate the schema")
		return
	}

	type SnapshotStats struct {
		Boards    int64
		Snapshots int64
		MaxBytes  int64
	}
	var stats SnapshotStats
	query = `
		SELECT
			COUNT(DISTINCT board_id) as boards,
			COUNT(*) as snapshots,
			COALESCE(MAX(LENGTH(objects::text)), 0) as max_bytes
		FROM board_snapshots
	`
	if err := db.Raw(query).Scan(&stats).Error; err != nil {
		log.Fatal("Failed to get snapshot statistics:", err)
	}

	fmt.Println("Snapshot Statistics:")
	fmt.Printf("  - Boards with snapshots: %d\n", stats.Boards)
	fmt.Printf("  - Total snapshots: %d\n", stats.Snapshots)
	fmt.Printf("  - Largest snapshot: %d bytes\n", stats.MaxBytes)
	fmt.Println()

	type SnapshotInfo struct {
		BoardID   string
		Version   int64
		Bytes     int64
		CreatedAt string
	}
	var recent []SnapshotInfo
	query = `
		SELECT board_id, version, LENGTH(objects::text) as bytes, created_at
		FROM board_snapshots
		ORDER BY id DESC
		LIMIT 10
	`
	if err := db.Raw(query).Scan(&recent).Error; err != nil {
		log.Fatal("Failed to get recent snapshots:", err)
	}

	fmt.Println("Recent Snapshots (last 10):")
	for _, s := range recent {
		fmt.Printf("  - Board: %s, Version: %d, Size: %d bytes, At: %s\n",
			s.BoardID, s.Version, s.Bytes, s.CreatedAt)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

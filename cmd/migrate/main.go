package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thermalcam/internal/models"
	"thermalcam/internal/repository/sqlite"
)

// parseFilename splits "<timestamp>_<source>.jpg" as written by the
// snapshot store.
func parseFilename(name string) (time.Time, string, error) {
	base := strings.TrimSuffix(name, ".jpg")
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return time.Time{}, "", fmt.Errorf("unexpected filename format: %s", name)
	}

	ts, err := time.ParseInLocation("2006-01-02_15-04-05.000", base[:idx], time.Local)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("unexpected timestamp in %s: %w", name, err)
	}

	source := base[idx+1:]
	if source != "camera" && source != "thermal" {
		return time.Time{}, "", fmt.Errorf("unexpected source in %s", name)
	}
	return ts, source, nil
}

func main() {
	snapshotsDir := flag.String("snapshots", "snapshots", "Directory containing snapshot stills")
	dbPath := flag.String("db", filepath.Join("data", "snapshots.db"), "Database path")
	flag.Parse()

	fmt.Printf("Rebuilding %s from %s\n", *dbPath, *snapshotsDir)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	files, err := os.ReadDir(*snapshotsDir)
	if err != nil {
		log.Fatalf("Failed to read snapshots directory: %v", err)
	}

	var snapshots []models.Snapshot
	skipped := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".jpg" {
			continue
		}

		capturedAt, source, err := parseFilename(file.Name())
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		info, err := file.Info()
		if err != nil {
			log.Printf("Failed to get info for %s: %v", file.Name(), err)
			skipped++
			continue
		}

		snapshots = append(snapshots, models.Snapshot{
			Filename:   file.Name(),
			Source:     source,
			CapturedAt: capturedAt,
			FilePath:   filepath.Join(*snapshotsDir, file.Name()),
			FileSize:   info.Size(),
			MaxTemp:    sql.NullFloat64{},
			MinTemp:    sql.NullFloat64{},
		})
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots found to migrate")
		return
	}

	repo := sqlite.NewSnapshotRepository(db)
	fmt.Printf("Inserting %d snapshots into database...\n", len(snapshots))
	if err := repo.BulkInsert(snapshots); err != nil {
		log.Fatalf("Failed to insert snapshots: %v", err)
	}

	fmt.Printf("Migrated %d snapshots\n", len(snapshots))
	if skipped > 0 {
		fmt.Printf("Skipped %d files (invalid format or errors)\n", skipped)
	}
}

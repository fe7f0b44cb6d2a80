package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleBackup creates sample legacy backup files for testing the
// import path. One gzipped JSON-lines file per collection, matching the
// export format of the old flat key/value store.
func main() {
	dataDir := "data/backup"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	backups := map[string][]string{
		"ingredients.jsonl.gz": {
			`{"name":"Rice","quantity":8,"unit":"kg","minThreshold":3,"lastUpdated":"2026-01-15T10:00:00Z"}`,
			`{"name":"Flour - 25kg bag","quantity":2,"unit":"bag","minThreshold":1,"lastUpdated":"2026-01-10T09:30:00Z"}`,
			`{"name":"Olive Oil","quantity":4,"unit":"l","minThreshold":2}`,
			`{"name":"Salt","quantity":1.5,"unit":"kg","minThreshold":2}`,
		},
		"menu_items.jsonl.gz": {
			`{"name":"Grilled Salmon","category":"mains","price":120,"available":true}`,
			`{"name":"House Salad","category":"starters","price":80,"available":true}`,
			`{"name":"Seasonal Soup","category":"starters","price":60,"available":false}`,
		},
		"expenses.jsonl.gz": {
			`{"item":"Rice 5kg sack","quantity":5,"unit":"kg","cost":42.5,"supplier":"Wholesale Foods","date":"2026-01-12T08:00:00Z"}`,
			`{"item":"Olive Oil 2L","quantity":2,"unit":"l","cost":18,"date":"2026-01-14T08:00:00Z"}`,
		},
		"orders.jsonl.gz": {
			`{"tableNumber":4,"status":"served","subtotal":320,"tax":48,"total":368,"createdAt":"2026-01-15T19:20:00Z","items":[{"name":"Grilled Salmon","price":120,"quantity":2},{"name":"House Salad","price":80,"quantity":1}]}`,
			`{"tableNumber":2,"status":"pending","subtotal":60,"tax":9,"total":69,"items":[{"name":"Seasonal Soup","price":60,"quantity":1}]}`,
		},
	}

	for filename, lines := range backups {
		filePath := filepath.Join(dataDir, filename)

		if err := createBackupFile(filePath, lines); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d records\n", filePath, len(lines))
	}

	fmt.Println("\nSample backup files created successfully!")
	fmt.Println("Run the server with IMPORT_ENABLED=true IMPORT_DIR=data/backup to import them.")
}

func createBackupFile(filePath string, lines []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", line); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

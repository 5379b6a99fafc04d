package main

import (
	"log"

	"whatsapp-autoreply/internal/config"
	"whatsapp-autoreply/internal/database"
	"whatsapp-autoreply/internal/models"
)

// Resets PostgreSQL serial sequences after rows were copied in with
// explicit ids, e.g. by migrate_data.
func main() {
	cfg := config.LoadConfig()
	cfg.StoreDriver = "postgres"
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	tables := []string{
		models.AutomationRule{}.TableName(),
		models.ActivityLog{}.TableName(),
	}

	log.Println("Syncing PostgreSQL sequences...")

	for _, table := range tables {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			log.Printf("Error syncing sequence for %s: %v", table, err)
		} else {
			log.Printf("Successfully synced sequence for %s", table)
		}
	}

	log.Println("DONE!")
}

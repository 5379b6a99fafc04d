package main

import (
	"log"

	"whatsapp-autoreply/internal/config"
	"whatsapp-autoreply/internal/database"
	"whatsapp-autoreply/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Copies the agent state from the SQLite file at DB_PATH into the
// PostgreSQL database described by the DB_* settings.
func main() {
	cfg := config.LoadConfig()

	// 1. Connect to SQLite (Source)
	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	// 2. Connect to PostgreSQL (Destination)
	pgCfg := *cfg
	pgCfg.StoreDriver = "postgres"
	pgDB, err := database.Open(&pgCfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	log.Println("Starting data migration...")

	// Rules and settings are replaced as a whole, like a dashboard save
	migrateTable := func(tableName string, rows interface{}, replace bool) {
		log.Printf("Migrating table: %s", tableName)

		if err := sqliteDB.Find(rows).Error; err != nil {
			log.Printf("Error reading %s from SQLite: %v", tableName, err)
			return
		}

		err := pgDB.Transaction(func(tx *gorm.DB) error {
			if replace {
				if err := tx.Exec("DELETE FROM " + tableName).Error; err != nil {
					return err
				}
			}
			return tx.CreateInBatches(rows, 500).Error
		})

		if err != nil {
			log.Printf("Error writing %s to Postgres: %v", tableName, err)
		} else {
			log.Printf("Successfully migrated %s", tableName)
		}
	}

	var rules []models.AutomationRule
	migrateTable(models.AutomationRule{}.TableName(), &rules, true)

	var settings []models.SystemSetting
	migrateTable(models.SystemSetting{}.TableName(), &settings, true)

	var logs []models.ActivityLog
	migrateTable(models.ActivityLog{}.TableName(), &logs, false)

	log.Println("Migration completed! Run sync_sequences before starting the server on PostgreSQL.")
}

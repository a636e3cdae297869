package database

import (
	"carelink/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.CareRelationship{},
		&models.LabResult{},
		&models.LabIndicator{},
		&models.Recommendation{},
		&models.RecommendationInteraction{},
		&models.DiaryEntry{},
		&models.Medication{},
		&models.Reminder{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates indexes GORM cannot express in struct tags.
// The partial unique index is what makes concurrent generation safe:
// two racing inserts of the same dedup key can both pass the
// application-level check, but only one row in a non-terminal status
// can exist per (user, type, title, company).
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_recommendations_dedup_live
			ON recommendations (user_id, type, title, COALESCE(company_id, '00000000-0000-0000-0000-000000000000'))
			WHERE status IN ('ACTIVE', 'VIEWED', 'CLICKED') AND deleted_at IS NULL`,
		"CREATE INDEX IF NOT EXISTS idx_recommendations_user_status ON recommendations(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_interactions_recommendation_created ON recommendation_interactions(recommendation_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_lab_indicators_result_status ON lab_indicators(lab_result_id, status)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			return log.Err("failed to create index", err, "sql", indexSQL)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}

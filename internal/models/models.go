package models

// ===========================================================================
// Models Index
// List of all models for GORM AutoMigrate
// ===========================================================================

// AllModels returns every model, in dependency order, for
// database.AutoMigrate().
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Lead{},
		&Conversation{},
		&Message{},
		&ActivityLog{},
		&KBArticle{},
	}
}

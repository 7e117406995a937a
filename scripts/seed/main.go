//go:build ignore

// ===========================================================================
// Seed script for development/testing
// Run: go run scripts/seed/main.go
// Creates the initial admin account and the knowledge-base articles the
// chat responder quotes from.
// ===========================================================================

package main

import (
	"context"
	"fmt"
	"log"

	"tesla-crm/internal/config"
	"tesla-crm/internal/database"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"
	"tesla-crm/pkg/logger"
)

func main() {
	fmt.Println("Seeding data...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database, zapLog)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	fmt.Println("Database connected and migrated")

	ctx := context.Background()

	// =========================================================================
	// 1. Initial admin user
	// =========================================================================
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		admin := &models.User{
			Email:     "admin@teslacrm.com",
			FirstName: "Admin",
			LastName:  "User",
			Role:      models.RoleAdmin,
			Status:    models.StatusActive,
		}
		if err := admin.SetPassword("admin123"); err != nil {
			log.Fatalf("set admin password: %v", err)
		}
		if err := db.Create(admin).Error; err != nil {
			log.Fatalf("create admin: %v", err)
		}
		fmt.Printf("Created admin user %s (ID: %s)\n", admin.Email, admin.ID)
	} else {
		fmt.Println("Users already exist, skipping admin creation")
	}

	// =========================================================================
	// 2. Knowledge-base articles
	// =========================================================================
	kbRepo := repositories.NewKBRepository(db)

	articles := []models.KBArticle{
		{
			Slug:  "itse-basico",
			Title: "Requisitos ITSE básicos",
			Body:  "Para riesgo bajo: planos simples, certificación de instalaciones eléctricas y extintor acorde al metraje.",
			Tags:  "itse, requisitos, riesgo bajo",
		},
		{
			Slug:  "itse-cocinas",
			Title: "ITSE para restaurantes/cocinas",
			Body:  "Cocinas comerciales suelen ser riesgo medio: considerar extintores clase K, detectores y rutas de evacuación.",
			Tags:  "itse, restaurante, riesgo medio, cocina, clase K",
		},
		{
			Slug:  "pozo-tierra",
			Title: "Puesta a tierra",
			Body:  "La resistencia recomendada depende de la normativa; se mide con telurímetro. Si es alta, se mejora con tratamiento.",
			Tags:  "pozo, tierra, resistencia, cne",
		},
		{
			Slug:  "incendios-deteccion",
			Title: "Sistemas de detección",
			Body:  "Se diseñan según área y uso: detectores, sirenas, pulsadores, panel de alarma y señalización.",
			Tags:  "incendio, detección, alarma, panel",
		},
	}

	for i := range articles {
		if err := kbRepo.Upsert(ctx, &articles[i]); err != nil {
			log.Fatalf("upsert article %s: %v", articles[i].Slug, err)
		}
		fmt.Printf("Upserted KB article %s\n", articles[i].Slug)
	}

	fmt.Println("Seed completed")
}

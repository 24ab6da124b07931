package main

import (
	"context"
	"log"

	"spendtrack/internal/config"
	"spendtrack/internal/db"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

// defaultCategories is the starter category set inserted into a fresh database.
var defaultCategories = []model.Category{
	{Name: "Food & Dining", Description: "Groceries, restaurants, and food delivery", Icon: "restaurant", Color: "#FF5733"},
	{Name: "Transportation", Description: "Fuel, public transport, taxi, and vehicle maintenance", Icon: "directions_car", Color: "#3498DB"},
	{Name: "Shopping", Description: "Clothing, electronics, and general shopping", Icon: "shopping_cart", Color: "#9B59B6"},
	{Name: "Entertainment", Description: "Movies, games, hobbies, and leisure activities", Icon: "movie", Color: "#E74C3C"},
	{Name: "Bills & Utilities", Description: "Electricity, water, internet, and phone bills", Icon: "receipt", Color: "#F39C12"},
	{Name: "Healthcare", Description: "Medical expenses, pharmacy, and health insurance", Icon: "local_hospital", Color: "#1ABC9C"},
	{Name: "Education", Description: "Courses, books, and educational materials", Icon: "school", Color: "#34495E"},
	{Name: "Travel", Description: "Vacation, hotel, and travel expenses", Icon: "flight", Color: "#16A085"},
	{Name: "Personal Care", Description: "Salon, spa, and personal grooming", Icon: "face", Color: "#E91E63"},
	{Name: "Other", Description: "Miscellaneous expenses", Icon: "more_horiz", Color: "#95A5A6"},
}

func main() {
	log.Println("Starting category seed...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Category{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepository(gormDB)

	count, err := categoryRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count categories: %v", err)
	}
	if count > 0 {
		log.Printf("Database already has %d categories, skipping seed", count)
		return
	}

	for i := range defaultCategories {
		defaultCategories[i].Active = true
		if err := categoryRepo.Create(ctx, &defaultCategories[i]); err != nil {
			log.Fatalf("Failed to create category %q: %v", defaultCategories[i].Name, err)
		}
	}
	log.Printf("Seeded %d categories", len(defaultCategories))
}

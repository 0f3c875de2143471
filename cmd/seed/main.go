package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/internal/database"
	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/utils"
)

// Seeds the role table and, when the ADMIN_* variables are set, a confirmed
// administrator account with its self-follow edge.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	if err := database.SeedRoles(database.DB); err != nil {
		log.Fatal("Failed to seed roles:", err)
	}
	log.Println("Roles seeded")

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_USERNAME / ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("Admin user already exists:", existing.Username)
		return
	}

	var adminRole models.Role
	if err := database.DB.Where("name = ?", models.RoleNameAdministrator).First(&adminRole).Error; err != nil {
		log.Fatal("Administrator role missing:", err)
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now().UTC()
	admin := models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		RoleID:       adminRole.ID,
		Confirmed:    true,
		AvatarHash:   models.GravatarHash(adminEmail),
		MemberSince:  now,
		LastSeen:     now,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}
	if err := database.DB.Create(&models.Follow{
		FollowerID: admin.ID,
		FollowedID: admin.ID,
		Timestamp:  now,
	}).Error; err != nil {
		log.Fatal("Failed to create self-follow:", err)
	}

	log.Println("Admin user created:", admin.Username)
}

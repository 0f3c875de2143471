package database

import (
	"errors"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}

// SeedRoles upserts the three built-in roles by name. Safe to run on every
// startup; permissions are rewritten so bitmask changes take effect.
func SeedRoles(db *gorm.DB) error {
	for _, seed := range models.RoleSeeds() {
		var role models.Role
		err := db.Where("name = ?", seed.Name).First(&role).Error
		switch {
		case err == nil:
			role.Permissions = seed.Permissions
			role.Default = seed.Default
			if err := db.Save(&role).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			role = models.Role{
				Name:        seed.Name,
				Permissions: seed.Permissions,
				Default:     seed.Default,
			}
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

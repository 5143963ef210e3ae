// Package main seeds the initial super_admin account from environment
// variables. Safe to run repeatedly; it exits when the account exists.
package main

import (
	"log"
	"os"

	"github.com/gungun88/merchant-platform-sub002/internal/config"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize databases: %v", err)
	}
	defer repositories.CloseDB()

	var existing models.User
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}

	admin := models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         config.GetEnv("ADMIN_NAME", "Platform Admin"),
		Phone:        adminPhone,
		Role:         models.RoleSuperAdmin,
		Status:       "active",
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin user:", err)
	}

	log.Printf("super_admin account %s created", adminEmail)
}

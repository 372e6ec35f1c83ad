package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdminUser creates the bootstrap HR account on startup when it does not
// exist yet. Everything in the API is reached through an HR login, so a
// fresh database needs this account before anyone can use the system.
func SeedAdminUser(userRepo *database.UserRepository, cfg config.AdminConfig, bcryptCost int, logger *logrus.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping HR account seed")
		return nil
	}

	existing, err := userRepo.GetUserByEmail(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing != nil {
		logger.WithField("email", cfg.Email).Info("Admin account already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := userRepo.CreateUser(cfg.Email, string(hash), "HR Administrator", models.RoleHR)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Admin account created")
	return nil
}

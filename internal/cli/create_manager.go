package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jornada/internal/db"
	"jornada/internal/models"
	"jornada/internal/services"
)

// RunCreateManagerCommand bootstraps the manager account. It refuses to run
// when a manager already exists, prompts for the password on the terminal and
// stores the account ready for first login.
func RunCreateManagerCommand(dbPath string, email string, name string, location *time.Location) error {
	normalizedEmail, err := services.NormalizeAuthEmail(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if location == nil {
		location = time.Local
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	managers, err := repositories.Users.CountByRole(models.RoleManager)
	if err != nil {
		return fmt.Errorf("count managers: %w", err)
	}
	if managers > 0 {
		return errors.New("a manager account already exists")
	}

	exists, err := repositories.Users.ExistsByNormalizedEmail(normalizedEmail)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return fmt.Errorf("user %s already exists", normalizedEmail)
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        normalizedEmail,
		Name:         name,
		PasswordHash: string(passwordHash),
		Role:         models.RoleManager,
		Active:       true,
		CreatedAt:    time.Now().In(location),
	}
	if err := repositories.Users.Create(&user); err != nil {
		return fmt.Errorf("create manager: %w", err)
	}

	fmt.Println("✅ Manager account created")
	fmt.Printf("Email: %s\n", user.Email)

	return nil
}

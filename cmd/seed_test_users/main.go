package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Amaytushin/Ratatouille-tusul/config"
	"github.com/Amaytushin/Ratatouille-tusul/internal/database"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

const password = "testpassword123"

var testUsers = []struct {
	email    string
	username string
	staff    bool
	active   bool
}{
	{email: "john.doe@example.com", username: "johndoe", active: true},
	{email: "jane.smith@example.com", username: "janesmith", active: true},
	{email: "admin@example.com", username: "admin", staff: true, active: true},
	{email: "inactive@example.com", username: "inactive", active: false},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	repos := repository.New(db)
	users := service.NewUserService(repos.Users, nil)
	ctx := context.Background()

	for _, tu := range testUsers {
		user, err := users.Register(ctx, &types.RegisterRequest{
			Email:    tu.email,
			Username: tu.username,
			Password: password,
		}, nil)
		if errors.Is(err, service.ErrConflict) {
			fmt.Printf("User already exists: %s\n", tu.email)
			continue
		}
		if err != nil {
			logrus.WithError(err).WithField("email", tu.email).Fatal("Failed to create test user")
		}

		if tu.staff || !tu.active {
			user.IsStaff = tu.staff
			user.IsActive = tu.active
			if err := repos.Users.Update(ctx, user); err != nil {
				logrus.WithError(err).WithField("email", tu.email).Fatal("Failed to update test user")
			}
		}
		fmt.Printf("Created test user: %s (staff=%t, active=%t)\n", tu.email, tu.staff, tu.active)
	}

	fmt.Printf("\nAll test users use the password: %s\n", password)
}

package commands

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

type CreateAdminCmd struct {
	Email    string `help:"Admin email" required:""`
	Password string `help:"Admin password (min 6 characters)" required:""`
	Name     string `help:"Display name" default:"Administrator"`
}

func (c *CreateAdminCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	auth := services.NewAuthService(store, services.SystemClock{})
	user, err := auth.CreateUser(ctx, c.Email, c.Name, c.Password, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log := globals.logger()
	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("admin created")
	return nil
}

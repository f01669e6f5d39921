package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/api/app"
	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/spf13/cobra"
)

var useraddOpts struct {
	email    string
	name     string
	password string
	roles    []string
}

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Create a user directly in the store",
	Example: `  taskboard useradd --email admin@example.com --name Admin --password s3cret --role ADMIN
  STORE_DRIVER=mongo taskboard useradd --email dev@example.com --name Dev --password s3cret`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := app.NewLogger(cfg)
		cryptox.SetPepperPath(cfg.PepperFile)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = slogx.WithContext(ctx, logger)

		db, err := app.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(context.Background()) }()

		roles, err := domain.ParseRoles(useraddOpts.roles)
		if err != nil {
			return err
		}

		p := domain.UserPatch{
			Email:    &useraddOpts.email,
			Name:     &useraddOpts.name,
			Password: &useraddOpts.password,
		}
		if len(roles) > 0 {
			p.Roles = &roles
		}

		users := &service.UserService{Store: db}
		u, err := users.Create(ctx, p)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Email, strings.Join(domain.RoleNames(u.Roles), ","))
		return nil
	},
}

func init() {
	f := useraddCmd.Flags()
	f.StringVar(&useraddOpts.email, "email", "", "email address (required)")
	f.StringVar(&useraddOpts.name, "name", "", "display name (required)")
	f.StringVar(&useraddOpts.password, "password", "", "initial password (required)")
	f.StringSliceVar(&useraddOpts.roles, "role", nil, "role to grant, repeatable (ADMIN, DEVELOPER)")

	_ = useraddCmd.MarkFlagRequired("email")
	_ = useraddCmd.MarkFlagRequired("name")
	_ = useraddCmd.MarkFlagRequired("password")
}

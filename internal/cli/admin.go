package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"leavedesk/internal/domain/user"
	"leavedesk/internal/platform/db"
)

type CreateAdminCmd struct {
	Email     string `arg:"" help:"Email of the admin account."`
	Password  string `help:"Password for a new account. Prompted for when empty." env:"LEAVECTL_ADMIN_PASSWORD"`
	FirstName string `help:"First name for a new account." default:"Admin"`
	LastName  string `help:"Last name for a new account." default:"User"`
}

func (c *CreateAdminCmd) Run(ctx *Context) error {
	password := c.Password
	if password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return err
		}
	}

	mongoDB, err := ctx.connect()
	if err != nil {
		return err
	}
	defer func() { _ = mongoDB.Close(ctx.Ctx) }()

	store, err := user.NewStore(ctx.Ctx, mongoDB.Database())
	if err != nil {
		return err
	}
	service := user.NewService(store, ctx.Config.DefaultResetPassword, ctx.Log)
	admin, created, err := service.EnsureAdmin(ctx.Ctx, c.Email, password, c.FirstName, c.LastName)
	if err != nil {
		return err
	}

	action := "promoted"
	if created {
		action = "created"
	}
	_, err = fmt.Fprintln(ctx.Out, okStyle.Render(fmt.Sprintf("admin %s %s (%s)", admin.Email, action, admin.ID.Hex())))
	return err
}

func promptPassword() (string, error) {
	var password, confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(user.ValidatePassword).
				Value(&password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != password {
						return errors.New("passwords do not match")
					}
					return nil
				}).
				Value(&confirm),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("password prompt: %w", err)
	}
	return strings.TrimSpace(password), nil
}

type EnsureIndexesCmd struct{}

func (c *EnsureIndexesCmd) Run(ctx *Context) error {
	mongoDB, err := ctx.connect()
	if err != nil {
		return err
	}
	defer func() { _ = mongoDB.Close(ctx.Ctx) }()

	if err := db.EnsureIndexes(ctx.Ctx, mongoDB.Database()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, okStyle.Render("indexes ready on "+ctx.Config.MongoDatabase))
	return err
}

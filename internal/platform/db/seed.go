package db

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/platform/config"
)

type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) (*user.User, bool, error)
}

// EnsureIndexes creates the indexes of every collection. It is safe to run
// repeatedly.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := user.NewStore(ctx, database); err != nil {
		return err
	}
	if _, err := leavetype.NewStore(ctx, database); err != nil {
		return err
	}
	if _, err := leave.NewStore(ctx, database); err != nil {
		return err
	}
	if _, err := audit.NewStore(ctx, database); err != nil {
		return err
	}
	return nil
}

// Seed creates or promotes the configured admin account. It does nothing
// unless RUN_SEED is on and both seed credentials are set.
func Seed(ctx context.Context, cfg config.Config, users AdminEnsurer, log *zap.Logger) error {
	if !cfg.RunSeed {
		return nil
	}
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		return nil
	}

	admin, created, err := users.EnsureAdmin(ctx, email, cfg.SeedAdminPassword, "", "")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if log != nil {
		log.Info("seed admin ready", zap.String("user_id", admin.ID.Hex()), zap.Bool("created", created))
	}
	return nil
}

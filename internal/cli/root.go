package cli

import (
	"context"
	"io"

	"go.uber.org/zap"

	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
)

type Context struct {
	Ctx    context.Context
	Out    io.Writer
	Config config.Config
	Log    *zap.Logger
}

func (c *Context) connect() (*db.Mongo, error) {
	return db.Connect(c.Ctx, c.Config, c.Log)
}

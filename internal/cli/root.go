// Package cli implements avatarctl, an offline companion to the HTTP
// service that composes avatars straight from a part catalog.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/avatar-backend/internal/app"
	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

type rootOptions struct {
	configPath string
	dir        string
	verbose    bool
}

// NewRootCmd builds the avatarctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "avatarctl",
		Short:         "Compose and inspect avatars from a part catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (defaults to AVATAR_CONFIG_PATH or ./config/config.*)")
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "Read parts from this directory instead of the configured source")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log catalog loading")

	root.AddCommand(
		newOptionsCmd(opts),
		newComposeCmd(opts),
		newRandomCmd(opts),
		newEncodeCmd(opts),
		newDecodeCmd(opts),
	)
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(o.dir); dir != "" {
		cfg.Catalog.Source = config.SourceFS
		cfg.Catalog.Dir = dir
	}
	return cfg, nil
}

func (o *rootOptions) logger() *logger.Logger {
	if !o.verbose {
		return logger.Nop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.Nop()
	}
	return log
}

func (o *rootOptions) load(ctx context.Context) (*config.Config, *catalog.Catalog, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	cat, err := app.LoadCatalog(ctx, o.logger(), cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return cfg, cat, nil
}

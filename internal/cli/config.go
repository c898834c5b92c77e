package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/internal/configloader"
	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/schema"
)

// session is the state every file-processing command starts from.
type session struct {
	ctx     context.Context
	logger  *log.Logger
	cfg     *config.Config
	workDir string
	color   string
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadSession resolves the effective configuration with cliCfg on top.
func loadSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load configuration: %w", err)}
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}

	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loaded.LoadedFrom)
	}

	return &session{
		ctx:     ctx,
		logger:  logger,
		cfg:     loaded.Config,
		workDir: workDir,
		color:   colorMode,
	}, nil
}

// overrideBool applies a boolean flag the user set explicitly. Merging
// only switches booleans on, so turning one off has to happen here.
func overrideBool(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

// newSchemaResolver loads the configured schemas and namespace mappings.
// Schema files a document points at are loaded lazily; broken ones are
// logged and skipped.
func newSchemaResolver(s *session) (*schema.Resolver, error) {
	base, err := schema.Load(s.ctx, s.cfg.Schemas)
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load schemas: %w", err)}
	}

	mappings := make([]schema.Mapping, 0, len(s.cfg.SchemaMapping))
	for _, m := range s.cfg.SchemaMapping {
		mappings = append(mappings, schema.Mapping{XMLNS: m.XMLNS, XSDURI: m.XSDURI})
	}

	resolver := schema.NewResolver(base, mappings)
	resolver.OnError = func(uri string, err error) {
		s.logger.Warn("skipping schema", logging.FieldURI, uri, logging.FieldError, err)
	}

	s.logger.Debug("schemas loaded", logging.FieldSchema, base.Len())

	return resolver, nil
}

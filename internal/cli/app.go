package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/ppiankov/truthcheck/internal/pipeline"
	"github.com/sirupsen/logrus"
)

// app is what a command needs: resolved config, logger and the assembled pipeline
type app struct {
	config   *model.Config
	logger   *logrus.Logger
	pipeline *pipeline.Pipeline
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log, verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{config: cfg, logger: logger, pipeline: p}, nil
}

func (a *app) Close() {
	if err := a.pipeline.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close storage")
	}
}

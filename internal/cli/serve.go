package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/truthcheck/internal/llm"
	"github.com/ppiankov/truthcheck/internal/server"
	"github.com/ppiankov/truthcheck/internal/util"
	"github.com/ppiankov/truthcheck/internal/worker"
)

var envFile string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-check service backed by an LLM",
	Long: `Serve answers GET /check_fact?claim=... with {"claim", "analysis"},
where the analysis comes from the configured LLM provider (openai, anthropic, ollama).

API keys are read from the environment; a .env file in the working directory
is loaded first.

Example:
  truthcheck serve
  truthcheck serve --addr 0.0.0.0:5000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading config")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, verbose)
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP
	httpCfg.Timeout = cfg.LLM.Timeout
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, util.NewHTTPClient(httpCfg, nil)))
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	var limiter server.ClientLimiter
	if cfg.Server.ClientRateLimit > 0 {
		limiter = worker.NewKeyLimiter(cfg.Server.ClientRateLimit, 5, 0)
	}

	logger.WithField("provider", provider.Name()).Info("Using LLM provider")
	return server.Run(cmd.Context(), cfg.Server.Addr, server.New(provider, limiter, logger), logger)
}

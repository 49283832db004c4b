package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/handlers"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/justsurfingit/jobly/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides PORT)")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	jobService := services.NewJobService(db, log)
	companyService := services.NewCompanyService(db, jobService, log)
	userService := services.NewUserService(db, auth.NewPasswords(cfg.Auth.BcryptWorkFactor), log)

	deps := handlers.Deps{
		Companies:    companyService,
		Jobs:         jobService,
		Users:        userService,
		Applications: services.NewApplicationService(db, log),
		Tokens:       tokens,
		DB:           db,
		CORSOrigins:  cfg.CORS.Origins,
		Log:          log,
	}
	if extractor := newExtractor(ctx, cfg.LLM, companyService, log); extractor != nil {
		deps.Extractor = extractor
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newExtractor returns nil when no API key is configured or the client can
// not be created; the extract route is then not mounted.
func newExtractor(ctx context.Context, cfg config.LLMConfig, companies *services.CompanyService, log zerolog.Logger) *services.LLMService {
	if cfg.APIKey == "" {
		log.Info().Msg("GEMINI_API_KEY not set, job extraction disabled")
		return nil
	}
	llm, err := services.NewLLMService(ctx, cfg, services.NewCompanyMatcher(companies), log)
	if err != nil {
		log.Warn().Err(err).Msg("Job extraction disabled")
		return nil
	}
	return llm
}

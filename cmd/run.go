package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/config"
	"github.com/kubev2v/aql-compiler/internal/handlers"
	"github.com/kubev2v/aql-compiler/internal/server"
	"github.com/kubev2v/aql-compiler/internal/services"
	"github.com/kubev2v/aql-compiler/internal/store"
	"github.com/kubev2v/aql-compiler/internal/store/migrations"
	"github.com/kubev2v/aql-compiler/pkg/adapters"
	"github.com/kubev2v/aql-compiler/pkg/filter"
	"github.com/kubev2v/aql-compiler/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the query compiler API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}
			zap.S().Named("run").Infow("starting aqlc", "version", version, "config", cfg.DebugMap())
			return run(cmd.Context(), cfg)
		},
	}

	registerServerFlags(cmd, cfg)
	registerStoreFlags(cmd, cfg)
	registerCompilerFlags(cmd, cfg)

	return cmd
}

func registerServerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "port of the API server")
	cmd.Flags().StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev (HTTP) or prod (HTTPS)")
	cmd.Flags().StringVar(&cfg.Server.TLSCertFile, "server-tls-cert", cfg.Server.TLSCertFile, "PEM certificate used in prod mode")
	cmd.Flags().StringVar(&cfg.Server.TLSKeyFile, "server-tls-key", cfg.Server.TLSKeyFile, "PEM key used in prod mode")
}

func registerStoreFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().StringVar(&cfg.Store.DBPath, "db-path", cfg.Store.DBPath, "DuckDB file holding schemas and saved queries")
}

func registerCompilerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().StringSliceVar(&cfg.Compiler.SizeFields, "compiler-size-fields", cfg.Compiler.SizeFields, "array fields compared by element count (default: built-in list)")
	cmd.Flags().StringVar(&cfg.Compiler.CatalogFile, "compiler-catalog-file", cfg.Compiler.CatalogFile, "YAML adapter catalog replacing the embedded one")
	cmd.Flags().StringVar(&cfg.Compiler.SchemaFile, "compiler-schema-file", cfg.Compiler.SchemaFile, "YAML or JSON schema imported on startup")
	cmd.Flags().IntVar(&cfg.Compiler.MaxExpandDepth, "compiler-max-expand-depth", cfg.Compiler.MaxExpandDepth, "maximum nesting of saved query references")
	cmd.Flags().IntVar(&cfg.Compiler.Workers, "compiler-workers", cfg.Compiler.Workers, "workers recompiling saved queries")
}

// validateConfiguration reports configuration errors using the flag names,
// then falls back to the struct tag checks.
func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.ServerMode != server.DevServer && cfg.Server.ServerMode != server.ProductionServer {
		return fmt.Errorf("invalid server mode: %s", cfg.Server.ServerMode)
	}
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}
	if (cfg.Server.TLSCertFile == "") != (cfg.Server.TLSKeyFile == "") {
		return errors.New("server-tls-cert and server-tls-key must be set together")
	}
	if cfg.Store.DBPath == "" {
		return errors.New("db-path cannot be empty")
	}
	if cfg.Compiler.Workers < 1 {
		return fmt.Errorf("invalid compiler-workers: %d", cfg.Compiler.Workers)
	}
	if cfg.Compiler.MaxExpandDepth < 1 {
		return fmt.Errorf("invalid compiler-max-expand-depth: %d", cfg.Compiler.MaxExpandDepth)
	}
	for _, f := range []struct{ flag, path string }{
		{"compiler-catalog-file", cfg.Compiler.CatalogFile},
		{"compiler-schema-file", cfg.Compiler.SchemaFile},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			return fmt.Errorf("%s: %w", f.flag, err)
		}
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger := zap.S().Named("run")

	st, err := openStore(ctx, cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warnw("failed to close store", "error", err)
		}
	}()

	catalog, err := loadCatalog(cfg.Compiler.CatalogFile)
	if err != nil {
		return err
	}

	compiler := services.NewCompilerService(st,
		services.WithOperatorTable(operatorTable(cfg.Compiler)),
		services.WithAdapterResolver(catalog),
		services.WithMaxExpandDepth(cfg.Compiler.MaxExpandDepth),
	)
	schemaSrv := services.NewSchemaService(st, compiler)
	if cfg.Compiler.SchemaFile != "" {
		n, err := importSchemaFile(ctx, schemaSrv, cfg.Compiler.SchemaFile)
		if err != nil {
			return err
		}
		logger.Infow("schema imported", "file", cfg.Compiler.SchemaFile, "namespaces", n)
	}

	sched := scheduler.NewScheduler[bool](cfg.Compiler.Workers)
	defer sched.Close()
	queriesSrv := services.NewSavedQueryService(st, compiler, sched)

	h := handlers.New(compiler, schemaSrv, queriesSrv, catalog)
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, h)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("server listening", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode)
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Stop(shutdownCtx)
		return nil
	})

	return g.Wait()
}

// openStore opens the DuckDB file at path and brings its schema up to date.
func openStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store.NewStore(db), nil
}

func loadCatalog(path string) (*adapters.Catalog, error) {
	if path == "" {
		return adapters.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return adapters.Load(f)
}

func operatorTable(cfg config.Compiler) *filter.OperatorTable {
	if len(cfg.SizeFields) == 0 {
		return filter.DefaultOperatorTable()
	}
	return filter.NewOperatorTable(cfg.SizeFields...)
}

func importSchemaFile(ctx context.Context, schemaSrv *services.SchemaService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := schemaSrv.Import(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("failed to import schema %s: %w", path, err)
	}
	return n, nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/aql-compiler/internal/config"
	"github.com/kubev2v/aql-compiler/internal/services"
)

func NewSchemaCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schema",
		Short:         "Manage the schema registry stored in the database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfg.Store.DBPath, "db-path", cfg.Store.DBPath, "DuckDB file holding schemas and saved queries")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "import FILE",
			Short: "Store every namespace of a YAML or JSON registry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if cfg.Store.DBPath == "" {
					return errors.New("db-path cannot be empty")
				}
				st, err := openStore(cmd.Context(), cfg.Store.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()

				schemaSrv := services.NewSchemaService(st, services.NewCompilerService(st))
				n, err := importSchemaFile(cmd.Context(), schemaSrv, args[0])
				if err != nil {
					return err
				}
				zap.S().Named("schema").Infow("schema imported", "file", args[0], "namespaces", n)
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d namespace(s) into %s\n", n, cfg.Store.DBPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the stored namespaces",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if cfg.Store.DBPath == "" {
					return errors.New("db-path cannot be empty")
				}
				st, err := openStore(cmd.Context(), cfg.Store.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()

				namespaces, err := st.Schema().List(cmd.Context())
				if err != nil {
					return err
				}
				for _, ns := range namespaces {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d fields\t%s\n", ns.Name, len(ns.Fields), ns.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			},
		},
	)

	return cmd
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/config"
	"github.com/kubev2v/aql-compiler/internal/services"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

// NewCompileCommand compiles an expression document without a server or
// database. The input is either a bare expression list or a compile request
// object with expressions and meta.
func NewCompileCommand(cfg *config.Configuration) *cobra.Command {
	var (
		schemaFile string
		inputFile  string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:           "compile",
		Short:         "Compile an expression list into an AQL filter",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := filter.Registry{}
			if schemaFile != "" {
				r, err := readRegistry(schemaFile)
				if err != nil {
					return err
				}
				registry = r
			}

			catalog, err := loadCatalog(cfg.Compiler.CatalogFile)
			if err != nil {
				return err
			}

			req, err := readCompileRequest(cmd.InOrStdin(), inputFile)
			if err != nil {
				return err
			}
			meta := filter.Meta{}
			if req.Meta != nil {
				meta = *req.Meta
			}

			builder := filter.NewBuilder(registry,
				filter.WithOperatorTable(operatorTable(cfg.Compiler)),
				filter.WithResolver(catalog),
			)
			query, _ := builder.Compile(req.Expressions, meta, true)
			errs := builder.Errors()

			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(v1.NewCompileResponse(query, errs, "")); err != nil {
					return err
				}
			} else {
				printCompiled(out, query, errs)
			}

			if len(errs) > 0 {
				return fmt.Errorf("query has %d validation error(s)", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "YAML or JSON schema registry")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "-", "expression document, - for stdin")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "print the compile response as JSON")
	cmd.Flags().StringSliceVar(&cfg.Compiler.SizeFields, "compiler-size-fields", cfg.Compiler.SizeFields, "array fields compared by element count (default: built-in list)")
	cmd.Flags().StringVar(&cfg.Compiler.CatalogFile, "compiler-catalog-file", cfg.Compiler.CatalogFile, "YAML adapter catalog replacing the embedded one")

	return cmd
}

func readRegistry(path string) (filter.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	registry, err := services.DecodeRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return registry, nil
}

func readCompileRequest(stdin io.Reader, path string) (v1.CompileRequest, error) {
	var req v1.CompileRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return req, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return req, nil
	}

	if data[0] == '[' {
		err = json.Unmarshal(data, &req.Expressions)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return req, fmt.Errorf("failed to decode expressions: %w", err)
	}
	return req, nil
}

func printCompiled(w io.Writer, q filter.CompiledQuery, errs []error) {
	label := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", label("filter:     "), green(q.ResultFilter))
	fmt.Fprintf(w, "%s %s\n", label("expressions:"), q.OnlyExpressionsFilter)
	for _, err := range errs {
		fmt.Fprintf(w, "%s %s\n", red("[Error]"), err)
	}
}

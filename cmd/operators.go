package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/config"
)

func NewOperatorsCommand(cfg *config.Configuration) *cobra.Command {
	var (
		params                               v1.GetOperatorsParams
		format, name, itemsType, itemsFormat string
		enum                                 []string
	)

	cmd := &cobra.Command{
		Use:           "operators",
		Short:         "List the operators offered for a field schema",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			optional := func(flag string, v *string) *string {
				if cmd.Flags().Changed(flag) {
					return v
				}
				return nil
			}
			params.Format = optional("format", &format)
			params.Name = optional("name", &name)
			params.ItemsType = optional("items-type", &itemsType)
			params.ItemsFormat = optional("items-format", &itemsFormat)
			if len(enum) > 0 {
				params.Enum = &enum
			}

			list := v1.NewOperatorList(operatorTable(cfg.Compiler), params.Schema())
			printOperators(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Type, "type", "", "field type: string, integer, number, bool, array, ...")
	cmd.Flags().StringVar(&format, "format", "", "field format: date-time, ip, version, ...")
	cmd.Flags().StringVar(&name, "name", "", "field name, for fields with special operators")
	cmd.Flags().StringSliceVar(&enum, "enum", nil, "allowed values of a closed-choice field")
	cmd.Flags().StringVar(&itemsType, "items-type", "", "item type of an array field")
	cmd.Flags().StringVar(&itemsFormat, "items-format", "", "item format of an array field")
	cmd.Flags().StringSliceVar(&cfg.Compiler.SizeFields, "compiler-size-fields", cfg.Compiler.SizeFields, "array fields compared by element count (default: built-in list)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func printOperators(w io.Writer, list v1.OperatorList) {
	if len(list.Operators) == 0 {
		fmt.Fprintln(w, color.YellowString("no operators for this schema"))
		return
	}

	header := color.New(color.Bold).SprintFunc()
	yes := color.GreenString("yes")
	no := color.HiBlackString("no")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", header("NAME"), header("TITLE"), header("VALUE"))
	for _, op := range list.Operators {
		value := no
		if op.ShowValue {
			value = yes
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, op.Title, value)
	}
	_ = tw.Flush()
}

package main

import (
	"fmt"
	"text/tabwriter"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/loader"

	"github.com/spf13/cobra"
)

var extStandard string

var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the extensions beaver can merge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		std, err := contract.ParseStandard(extStandard)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EXTENSION\tSOURCE")
		for _, k := range contract.ExtensionKinds() {
			fmt.Fprintf(w, "%s\t%s\n", k, loader.ExtensionPath(std, k))
		}
		return w.Flush()
	},
}

func init() {
	extensionsCmd.Flags().StringVarP(&extStandard, "standard", "s", "PSP22", "Token standard (PSP22, PSP34)")
}

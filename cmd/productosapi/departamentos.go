package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"productosapi/internal/config"
)

func newDepartamentosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departamentos",
		Short: "Lista los departamentos configurados",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			reg, err := config.BuildRegistry(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DPTO\tTIPO\tLECTURA\tESTADO\tDEFAULT")
			for _, s := range reg.All() {
				mark := ""
				if s.Key == reg.DefaultKey() {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Key, s.Kind, s.ListA1(), s.StatusColumn, mark)
			}
			return w.Flush()
		},
	}
}

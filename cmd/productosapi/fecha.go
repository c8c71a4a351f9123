package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"productosapi/internal/parser"
)

func newFechaCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:     "fecha <texto>",
		Short:   "Convierte una fecha en texto (\"25 de julio\") a dd/mm/aaaa",
		Example: `  productosapi fecha 25 de julio --anio 2024`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := parser.NormalizeDate(strings.Join(args, " "), year)
			if !res.OK() {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "anio", 0, "año (por defecto el actual)")
	return cmd
}

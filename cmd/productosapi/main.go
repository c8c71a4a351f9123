package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// newRootCmd 根命令；不带子命令时等同于 serve
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "productosapi",
		Short: "API de productos por departamento sobre hojas de cálculo",
		Long: `productosapi expone /productos sobre tablas de hojas de cálculo,
una por departamento (dpto).

Subcomandos:
  serve          - inicia el servidor HTTP
  departamentos  - lista los departamentos configurados
  fecha          - convierte "25 de julio" en 25/07/AAAA`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "ruta de config.toml (por defecto junto al ejecutable)")

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newDepartamentosCmd())
	root.AddCommand(newFechaCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

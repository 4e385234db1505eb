package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-engine/pkg/config"
	"github.com/jhoicas/invoice-engine/pkg/logger"
)

// cliOptions flags globales compartidas por los subcomandos.
type cliOptions struct {
	verbose bool
	// loadConfig se reemplaza en tests para no depender del entorno.
	loadConfig func() (*config.Config, error)
}

func (o *cliOptions) logger() *logger.Logger {
	if !o.verbose {
		return logger.Nop()
	}
	return logger.New(logger.Config{Env: "development", Level: "debug", Out: os.Stderr})
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(config.Load)
}

func newRootCmdWith(loadConfig func() (*config.Config, error)) *cobra.Command {
	opts := &cliOptions{loadConfig: loadConfig}

	root := &cobra.Command{
		Use:   "invoicecalc",
		Short: "Calcula impuestos y totales de facturas con aritmética decimal exacta",
		Long: `invoicecalc lee una factura (YAML, JSON o XLSX) y calcula los grupos de
impuestos, el total de impuestos y los totales neto y bruto.

Los valores por defecto (moneda, precisión, escala de trabajo y tipo de precio)
salen de las variables BILLING_* y se pueden sobrescribir con flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log de depuración en stderr")

	root.AddCommand(
		newCalculateCmd(opts),
		newRoundCmd(),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return root
}

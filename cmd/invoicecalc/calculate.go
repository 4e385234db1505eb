package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/infrastructure/loader"
)

type calculateFlags struct {
	priceType    string
	currency     string
	precision    int32
	workingScale int32
	output       string
}

func newCalculateCmd(opts *cliOptions) *cobra.Command {
	f := &calculateFlags{}
	cmd := &cobra.Command{
		Use:   "calculate <archivo>",
		Short: "Calcula impuestos y totales de una factura",
		Long: `Calcula la factura del archivo indicado (.yaml, .yml, .json o .xlsx).

Los flags sobrescriben lo que diga el archivo; lo que no venga en ninguno de
los dos toma el valor por defecto de BILLING_*.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.priceType, "price-type", "", "base de los precios: net | gross")
	cmd.Flags().StringVar(&f.currency, "currency", "", "código ISO 4217 (ej. EUR, JPY)")
	cmd.Flags().Int32Var(&f.precision, "precision", -1, "decimales del resultado (-1 = según la moneda)")
	cmd.Flags().Int32Var(&f.workingScale, "working-scale", -1, "decimales de los cálculos intermedios (-1 = configuración)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "formato de salida: text | json")
	return cmd
}

func runCalculate(cmd *cobra.Command, opts *cliOptions, f *calculateFlags, path string) error {
	if f.output != "text" && f.output != "json" {
		return fmt.Errorf("--output debe ser text o json, se recibió %q", f.output)
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	defaults, err := billing.DefaultsFromConfig(
		cfg.Billing.Currency, cfg.Billing.Precision, cfg.Billing.WorkingScale, cfg.Billing.PriceType,
	)
	if err != nil {
		return err
	}

	in, err := loader.Load(path)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, &in)

	uc := billing.NewCalculateInvoiceUseCase(defaults, opts.logger(), nil)
	resp, err := uc.Calculate(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if f.output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return writeText(cmd.OutOrStdout(), resp)
}

// applyFlags solo aplica los flags que el usuario pasó explícitamente.
func applyFlags(cmd *cobra.Command, f *calculateFlags, in *dto.CalculateInvoiceRequest) {
	flags := cmd.Flags()
	if flags.Changed("price-type") {
		in.PriceType = f.priceType
	}
	if flags.Changed("currency") {
		in.Currency = f.currency
		if !flags.Changed("precision") {
			in.Precision = nil
		}
	}
	if flags.Changed("precision") {
		p := f.precision
		in.Precision = &p
	}
	if flags.Changed("working-scale") {
		s := f.workingScale
		in.WorkingScale = &s
	}
}

func writeText(w io.Writer, resp *dto.InvoiceTotalsResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if resp.InvoiceNumber != "" {
		fmt.Fprintf(tw, "Factura\t%s\t\n", resp.InvoiceNumber)
	}
	fmt.Fprintf(tw, "Moneda\t%s\t\n", resp.Currency)
	fmt.Fprintf(tw, "Precios\t%s\t\n", resp.PriceType)
	fmt.Fprintln(tw, "\t\t")

	fmt.Fprintln(tw, "#\tDescripción\tCantidad\tPrecio\tImpuesto\tTotal\t")
	for i, item := range resp.Items {
		tax := "-"
		if item.TaxRate != nil {
			tax = *item.TaxRate + "%"
		}
		if item.TaxName != nil {
			tax = *item.TaxName + " " + tax
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1, item.Description, item.Quantity, item.UnitPrice, tax, item.RoundedTotal)
	}
	fmt.Fprintln(tw, "\t\t")

	for _, t := range resp.Taxes {
		label := "Impuesto"
		if t.Name != nil {
			label = *t.Name
		}
		if t.Rate != nil {
			label += " " + *t.Rate + "%"
		}
		fmt.Fprintf(tw, "%s sobre %s\t%s\t\n", label, t.Base, t.Total)
	}
	fmt.Fprintf(tw, "Neto\t%s\t\n", resp.NetTotal)
	fmt.Fprintf(tw, "Impuestos\t%s\t\n", resp.TaxTotal)
	fmt.Fprintf(tw, "Bruto\t%s\t\n", resp.GrossTotal)
	return tw.Flush()
}

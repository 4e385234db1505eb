package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/pkg/logger"
)

func newRoundCmd() *cobra.Command {
	var precision int32
	cmd := &cobra.Command{
		Use:   "round <valor>",
		Short: "Redondea un decimal mitad alejándose de cero",
		Example: `  invoicecalc round 2.675 --precision 2   # 2.68
  invoicecalc round --precision 0 -- -1.5 # -2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := billing.NewCalculateInvoiceUseCase(billing.Defaults{}, logger.Nop(), nil)
			resp, err := uc.Round(dto.RoundRequest{Value: dto.Amount(args[0]), Precision: precision})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Value)
			return nil
		},
	}
	cmd.Flags().Int32VarP(&precision, "precision", "p", 2, "decimales del resultado")
	return cmd
}

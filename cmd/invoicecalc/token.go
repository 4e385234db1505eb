package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-engine/internal/application/auth"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
)

func newTokenCmd(opts *cliOptions) *cobra.Command {
	var in dto.IssueTokenRequest
	cmd := &cobra.Command{
		Use:   "token <client-id>",
		Short: "Emite un JWT para un cliente de la API (requiere JWT_SECRET)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			uc := auth.NewTokenUseCase(auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
			in.ClientID = args[0]
			resp, err := uc.Issue(in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVar(&in.Role, "role", "billing", "rol del cliente: billing | admin")
	cmd.Flags().IntVar(&in.ExpMinutes, "exp-minutes", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	return cmd
}

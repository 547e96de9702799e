package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/rippleid/internal/http/server"
)

func newProfileCmd(f *rootFlags) *cobra.Command {
	var (
		token string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Consulta el perfil de Ripple ID de un access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("--token es requerido")
			}
			cfg, err := f.load()
			if err != nil {
				return err
			}
			s, err := server.NewRippleStrategy(cfg, server.Options{}, nil)
			if err != nil {
				return err
			}

			p, err := s.UserProfile(cmd.Context(), token)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if raw {
				return enc.Encode(p.Raw)
			}
			return enc.Encode(p)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token de Ripple ID")
	cmd.Flags().BoolVar(&raw, "raw", false, "Imprimir la respuesta completa del endpoint")
	return cmd
}

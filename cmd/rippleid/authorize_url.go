package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/rippleid/internal/http/server"
	"github.com/dropDatabas3/rippleid/internal/providers"
	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
)

func newAuthorizeURLCmd(f *rootFlags) *cobra.Command {
	var (
		state   string
		signup  bool
		cipDone bool
	)
	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Imprime la URL del diálogo de autorización de Ripple ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			s, err := server.NewRippleStrategy(cfg, server.Options{}, nil)
			if err != nil {
				return err
			}

			if state == "" {
				state = uuid.NewString()
			}
			opts := providers.AuthOptions{}
			if signup {
				opts[ripple.OptionType] = ripple.TypeSignup
			}
			if cipDone {
				opts[ripple.OptionCIPDone] = true
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.AuthorizeURL(state, opts))
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "Valor de state (default: uuid aleatorio)")
	cmd.Flags().BoolVar(&signup, "signup", false, "Abrir la página de registro (_login=register)")
	cmd.Flags().BoolVar(&cipDone, "cip-done", false, "Enviar _cip_done=true")
	return cmd
}

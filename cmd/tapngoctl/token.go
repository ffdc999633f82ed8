package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/config"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [address]",
		Short: "Sign a development session token for an address",
		Long: `Sign an HS256 session token for address with the server's JWT secret.
The secret comes from --secret, or else from the config file.

Use it as: Authorization: Bearer <token>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("%q is not an address", args[0])
			}
			addr := common.HexToAddress(args[0])

			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				path, _ := cmd.Flags().GetString("config")
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				secret = cfg.Auth.JWTSecret
			}
			if secret == "" {
				return errors.New("no JWT secret configured")
			}

			ttl, _ := cmd.Flags().GetDuration("ttl")
			role, _ := cmd.Flags().GetString("role")
			tok, err := auth.NewJWTManager(secret, ttl).Generate(addr, role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().String("secret", "", "JWT secret (overrides config)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().String("role", "", "Informational role claim, e.g. admin")

	return cmd
}

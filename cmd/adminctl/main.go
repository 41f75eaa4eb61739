// Command adminctl es el CLI de operación del back-office: consulta y
// mantenimiento vía /api/admin más utilidades locales (tokens, claves, cifrado).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globals struct {
	baseURL string
	token   string
	out     string
	timeout time.Duration
}

func (g *globals) client() *client { return newClient(g.baseURL, g.token, g.timeout) }

func (g *globals) printer(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), format: g.out}
}

func newRootCmd() *cobra.Command {
	g := &globals{
		baseURL: envOr("ADMINHUB_URL", "http://localhost:8080"),
		token:   envOr("ADMINHUB_TOKEN", ""),
		out:     envOr("ADMINHUB_OUT", "text"),
		timeout: 30 * time.Second,
	}

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "CLI de operación para el admin hub (/api/admin)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.out != "json" && g.out != "text" {
				return fmt.Errorf("--out debe ser json o text")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.baseURL, "url", g.baseURL, "URL base del servicio (env ADMINHUB_URL)")
	root.PersistentFlags().StringVar(&g.token, "token", g.token, "Bearer token (env ADMINHUB_TOKEN)")
	root.PersistentFlags().StringVar(&g.out, "out", g.out, "Formato de salida: json|text")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", g.timeout, "Timeout por request")

	root.AddCommand(
		newListCmd(g),
		newGetCmd(g),
		newDeleteCmd(g),
		newApisCmd(g),
		newTenantsCmd(g),
		newDictionaryTypesCmd(g),
		newTokenCmd(),
		newEncryptCmd(),
		newGenKeyCmd(),
	)
	return root
}

func main() {
	_ = godotenv.Load(".env")
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

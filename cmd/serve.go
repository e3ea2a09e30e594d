package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: "Serve POST /api/analyze for the web front end. Each browser tab sends an\n" +
		"X-Client-ID header; a second submission from the same client while one\n" +
		"is running is rejected with 409.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		analyzer, closeFn, err := newAnalyzer(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		cfg := server.DefaultConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if origins := os.Getenv("SMARTSTUDY_CORS_ORIGINS"); origins != "" {
			cfg.AllowOrigins = strings.Split(origins, ",")
		}
		if origins, _ := cmd.Flags().GetStringSlice("origin"); len(origins) > 0 {
			cfg.AllowOrigins = origins
		}

		return server.New(cfg, analyzer, log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().StringSlice("origin", nil, "Allowed CORS origin (repeatable)")
}

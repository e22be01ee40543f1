package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"db-compare/internal/introspect"
	"db-compare/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schema inspection and comparison over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := LoadTargets()
		if err != nil {
			return err
		}
		tokens, err := LoadTokens()
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			log.Println("Warning: no server.tokens configured, only guest routes are reachable")
		}

		srv := server.New(server.Config{
			Targets:     targets,
			Tokens:      tokens,
			SnapshotDir: viper.GetString("server.snapshot_dir"),
			Timeout:     viper.GetDuration("settings.timeout"),
		}, introspect.NewRouter(viper.GetBool("settings.normalize_types"), nil))

		httpSrv := &http.Server{
			Addr:    viper.GetString("server.addr"),
			Handler: srv.Router(),
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()

		log.Printf("Serving %d targets on %s", len(targets), httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

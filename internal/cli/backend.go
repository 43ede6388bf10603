package cli

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"techify-quiz/internal/config"
	"techify-quiz/internal/infra/csvfile"
	transport "techify-quiz/internal/transport/http"
)

// NewBackendCmd starts the remote question backend that quiz servers in
// remote mode post new questions to. Its port comes from --port, then
// BACKEND_PORT, then backend.port.
func NewBackendCmd(configPath *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Start the remote question backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackend(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("BACKEND_PORT"), "port to listen on (overrides backend.port)")
	return cmd
}

func runBackend(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Backend.Port
	}

	mux := http.NewServeMux()
	transport.NewBackendHandler(csvfile.NewQuestionRepository(cfg.Backend.Path), cfg.Backend.Path).Register(mux)
	return serve(ctx, "question backend", finalPort, mux)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/abelbrown/flicksearch/internal/searchtest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// newServeFixtureCommand serves the canned catalogue on the real API
// contract, for demos and the end-to-end test.
func newServeFixtureCommand() *cobra.Command {
	var (
		addr      string
		catalogue string
		delay     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve-fixture",
		Short: "Serve a local movie catalogue on GET /search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var movies []movie.Movie
			if catalogue != "" {
				data, err := os.ReadFile(catalogue)
				if err != nil {
					return err
				}
				var resp movie.SearchResponse
				if err := json.Unmarshal(data, &resp); err != nil {
					return fmt.Errorf("catalogue %s: %w", catalogue, err)
				}
				movies = resp.Movies
			}

			fixture := searchtest.New(movies)
			if delay > 0 {
				fixture.SetHook(func(w http.ResponseWriter, r *http.Request, query string) bool {
					time.Sleep(delay)
					return false
				})
			}

			r := chi.NewRouter()
			r.Use(middleware.Logger)
			r.Mount("/", fixture.Router())

			srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "serving fixture catalogue on %s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&catalogue, "catalogue", "", `JSON file shaped like {"movies": [...]}`)
	cmd.Flags().DurationVar(&delay, "delay", 0, "artificial latency per request")
	return cmd
}

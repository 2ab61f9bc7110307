package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abelbrown/flicksearch/internal/logging"
	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/abelbrown/flicksearch/internal/search"
	"github.com/abelbrown/flicksearch/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSearchCommand(f *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if err := logging.InitWriter(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			ctx := search.WithRequestID(cmd.Context(), uuid.NewString())
			if cfg.RequestTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()
			}

			movies, err := newClient(cfg).Search(ctx, query)
			if err != nil {
				logging.Error("search failed", "query", query, "request_id", search.RequestID(ctx), "err", err)
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), movies)
			}
			writeTable(cmd.OutOrStdout(), movies)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, `print the raw {"movies": [...]} response`)
	return cmd
}

func writeJSON(w io.Writer, movies []movie.Movie) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(movie.SearchResponse{Movies: movies})
}

func writeTable(w io.Writer, movies []movie.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(w, ui.NotFoundMessage)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "YEAR", "GENRE", "RATING")
	for _, m := range movies {
		t.Row(m.ID, m.Title, m.Year(), strings.Join(m.Genres(), ", "), m.Rating())
	}
	fmt.Fprintln(w, t.Render())
}

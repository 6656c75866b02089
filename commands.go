// commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/time2cinema/scrape/config"
	"github.com/time2cinema/scrape/database"
	"github.com/time2cinema/scrape/export"
	"github.com/time2cinema/scrape/handlers"
	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/scraper"
	"github.com/time2cinema/scrape/services"
	"github.com/time2cinema/scrape/title"
)

func openDatabase() error {
	if err := database.InitDB(config.AppConfig.Database); err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	if err := database.EnsureSchema(); err != nil {
		database.CloseDB()
		return err
	}
	return nil
}

func serveCmd() *cobra.Command {
	var noDB bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the title splitter and admin API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !noDB {
				if err := openDatabase(); err != nil {
					log.Printf("WARN Server: running without database: %v", err)
				} else {
					defer database.CloseDB()
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              ":" + config.AppConfig.Server.Port,
				Handler:           handlers.NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on http://localhost%s\n", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error starting server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Println("Server: shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&noDB, "no-db", false, "do not connect to the database")
	return cmd
}

func scrapeCmd() *cobra.Command {
	var (
		saveToDB  bool
		formats   string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the first-run and second-run listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := services.ScrapeOptions{SaveToDB: saveToDB, OutputDir: outputDir}
			if formats != "" {
				opts.Formats = strings.Split(formats, ",")
			}
			if saveToDB {
				if err := openDatabase(); err != nil {
					return err
				}
				defer database.CloseDB()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := services.RunMovieScrape(ctx, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "movies: %d\n", summary.Movies)
			if saveToDB {
				fmt.Fprintf(out, "saved to database: %d\n", summary.SavedToDB)
			}
			for _, f := range summary.OutputFiles {
				fmt.Fprintf(out, "wrote %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&saveToDB, "db", false, "upsert movies into the database")
	cmd.Flags().StringVarP(&formats, "format", "f", "json,csv", "comma-separated export formats: json, csv (empty for none)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "export directory (default: output.dir from config)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		csvPath  string
		outPath  string
		problems bool
		apply    bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Re-split stored titles and report the ones that changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apply && csvPath != "" {
				return errors.New("--apply updates the database and cannot be used with --csv")
			}

			var analyses []models.TitleAnalysis
			if csvPath != "" {
				f, err := os.Open(csvPath)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", csvPath, err)
				}
				movies, err := scraper.ParseMoviesCsv(f)
				f.Close()
				if err != nil {
					return err
				}
				analyses = services.AnalyzeTitles(movies)
			} else {
				if err := openDatabase(); err != nil {
					return err
				}
				defer database.CloseDB()
				var err error
				if analyses, err = services.AnalyzeStoredTitles(); err != nil {
					return err
				}
			}

			if problems {
				analyses = services.ProblematicTitles(analyses)
			}
			printAnalyses(cmd, analyses)

			if outPath != "" {
				if err := export.WriteCSV(outPath, analyses); err != nil {
					return err
				}
			}
			if apply {
				n, err := services.ApplyTitleFixes(analyses)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d movies\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "analyze an exported movie CSV instead of the database")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the analysis to this CSV file")
	cmd.Flags().BoolVar(&problems, "problems", false, "only list titles that could not be split")
	cmd.Flags().BoolVar(&apply, "apply", false, "write the re-split titles back to the database")
	return cmd
}

func printAnalyses(cmd *cobra.Command, analyses []models.TitleAnalysis) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFULL TITLE\tCHINESE\tENGLISH\tRULE\tNOTES")
	changed := 0
	for _, a := range analyses {
		if a.NeedsUpdate {
			changed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.AtmoviesID, a.FullTitle, a.ParsedChinese, a.ParsedEnglish, a.Rule, a.Notes)
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "%d titles, %d differ from the stored split\n", len(analyses), changed)
}

func splitCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "split <title>...",
		Short: "Split listing titles into Chinese and English",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, full := range args {
				res, rule := title.Explain(full)
				if explain {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", full, res.Chinese, res.English, rule)
				} else {
					fmt.Fprintf(out, "%s\t%s\t%s\n", full, res.Chinese, res.English)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "also print the rule that decided each split")
	return cmd
}

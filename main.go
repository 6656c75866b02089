// main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/time2cinema/scrape/config"
)

var (
	cfgFile string
	logFile string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var closeLog io.Closer

	rootCmd := &cobra.Command{
		Use:   "atmovies",
		Short: "atmovies listing scraper and bilingual title splitter",
		Long: `atmovies scrapes the first-run and second-run movie listings of
atmovies.com.tw, splits each listing title into its Chinese and English
halves, and exports or stores the result. It can also serve the splitter
over HTTP and audit titles already in the database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closer, err := setupLogging(logFile)
			if err != nil {
				return err
			}
			closeLog = closer

			path := cfgFile
			if path == "" {
				path = config.FindConfigFile()
			}
			if err := config.LoadConfig(path); err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			if path == "" {
				log.Println("Config: no config.yaml found, using defaults and environment.")
			} else {
				log.Printf("Config: loaded %s\n", path)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeLog != nil {
				closeLog.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "logs/app.log", "also write logs to this file (empty to disable)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(splitCmd())
	return rootCmd
}

// setupLogging sends the standard logger to stderr and, when path is set,
// appends to path as well.
func setupLogging(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(os.Stderr)
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

// Command legalacts-parser crawls legalacts.ru into flat-text corpus files
// and uploads them into a Qdrant collection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrkutin/legalacts-parser/internal/browser"
	"github.com/mrkutin/legalacts-parser/internal/config"
	"github.com/mrkutin/legalacts-parser/internal/crawler"
	"github.com/mrkutin/legalacts-parser/internal/uploader"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "legalacts-parser",
		Short: "Crawler and uploader for the legalacts.ru legal corpus",
		Long: `legalacts-parser builds a flat-text corpus of Russian legal documents.

It crawls the codes catalog of legalacts.ru into one annotated file per
code, walks the paginated federal-laws index into a single file, and
uploads either corpus into a Qdrant collection for retrieval.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")

	rootCmd.AddCommand(codesCmd())
	rootCmd.AddCommand(lawsCmd())
	rootCmd.AddCommand(uploadCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func codesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Crawl the codes catalog into per-code corpus files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyBrowserFlags(cmd, &cfg)
			if cmd.Flags().Changed("output-dir") {
				cfg.Output.Dir, _ = cmd.Flags().GetString("output-dir")
			}
			if cmd.Flags().Changed("codes") {
				cfg.Crawl.Codes, _ = cmd.Flags().GetStringSlice("codes")
			}
			if cmd.Flags().Changed("max-articles") {
				cfg.Limits.MaxArticles, _ = cmd.Flags().GetInt("max-articles")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCrawl(cmd, cfg, browser.CodesProfile(), func(e *crawler.Engine, ctx context.Context) error {
				return e.RunCodes(ctx)
			})
		},
	}
	cmd.Flags().String("output-dir", "", "directory for per-code corpus files")
	cmd.Flags().StringSlice("codes", nil, "code slugs to crawl (default all)")
	cmd.Flags().Int("max-articles", 0, "stop after this many articles per code (0 = all)")
	addBrowserFlags(cmd)
	return cmd
}

func lawsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laws",
		Short: "Crawl the federal-laws index into a single corpus file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyBrowserFlags(cmd, &cfg)
			if cmd.Flags().Changed("output-file") {
				cfg.Output.LawsFile, _ = cmd.Flags().GetString("output-file")
			}
			if cmd.Flags().Changed("max-pages") {
				cfg.Limits.MaxPages, _ = cmd.Flags().GetInt("max-pages")
			}
			if cmd.Flags().Changed("max-laws") {
				cfg.Limits.MaxLaws, _ = cmd.Flags().GetInt("max-laws")
			}
			if cmd.Flags().Changed("start-page") {
				cfg.Limits.StartPage, _ = cmd.Flags().GetInt("start-page")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCrawl(cmd, cfg, browser.LawsProfile(), func(e *crawler.Engine, ctx context.Context) error {
				return e.RunLaws(ctx)
			})
		},
	}
	cmd.Flags().String("output-file", "", "destination corpus file")
	cmd.Flags().Int("max-pages", 0, "stop after this many index pages (0 = all)")
	cmd.Flags().Int("max-laws", 0, "stop after this many laws (0 = all)")
	cmd.Flags().Int("start-page", 1, "index page to resume from")
	addBrowserFlags(cmd)
	return cmd
}

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a corpus file into a Qdrant collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("qdrant-url") {
				cfg.VectorDB.Endpoint, _ = cmd.Flags().GetString("qdrant-url")
			}
			if cmd.Flags().Changed("embedding-url") {
				cfg.VectorDB.EmbeddingURL, _ = cmd.Flags().GetString("embedding-url")
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.VectorDB.BatchSize, _ = cmd.Flags().GetInt("batch-size")
			}
			if cmd.Flags().Changed("collection") {
				cfg.VectorDB.Collection, _ = cmd.Flags().GetString("collection")
			}

			file, _ := cmd.Flags().GetString("file")
			path, err := uploader.ResolveInputPath(file, cfg.Output.Dir)
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}

			client, err := uploader.NewClient(cfg.VectorDB)
			if err != nil {
				return err
			}
			embedder, err := uploader.NewHTTPEmbedder(cfg.VectorDB.EmbeddingURL)
			if err != nil {
				return err
			}

			appendMode, _ := cmd.Flags().GetBool("append")
			limit, _ := cmd.Flags().GetInt("limit")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			total, err := uploader.New(client, embedder, logger).Upload(ctx, uploader.Options{
				FilePath:   path,
				Collection: cfg.VectorDB.Collection,
				BatchSize:  cfg.VectorDB.BatchSize,
				Append:     appendMode,
				Limit:      limit,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %d records from %s\n", total, path)
			return nil
		},
	}
	cmd.Flags().String("file", "", "corpus file path, or a bare name under the output directory")
	cmd.Flags().String("collection", "", "collection name (default: file name stem)")
	cmd.Flags().String("qdrant-url", "", "Qdrant endpoint")
	cmd.Flags().String("embedding-url", "", "embedding service endpoint")
	cmd.Flags().Int("batch-size", 0, "upload batch size")
	cmd.Flags().Bool("append", false, "append to the existing collection instead of replacing it")
	cmd.Flags().Int("limit", 0, "upload at most this many records (0 = all)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("headless", true, "run Chrome headless")
	cmd.Flags().Duration("delay-min", 0, "minimum pause between steps")
	cmd.Flags().Duration("delay-max", 0, "maximum pause between steps")
}

func applyBrowserFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless, _ = cmd.Flags().GetBool("headless")
	}
	if cmd.Flags().Changed("delay-min") {
		d, _ := cmd.Flags().GetDuration("delay-min")
		cfg.Delays.Min = config.DurationFrom(d)
	}
	if cmd.Flags().Changed("delay-max") {
		d, _ := cmd.Flags().GetDuration("delay-max")
		cfg.Delays.Max = config.DurationFrom(d)
	}
}

// runCrawl owns the shared lifecycle of both crawl commands: logger,
// interrupt handling, browser session, engine.
func runCrawl(cmd *cobra.Command, cfg config.Config, profile browser.HumanizeProfile, run func(*crawler.Engine, context.Context) error) error {
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:          cfg.Browser.Headless,
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.Browser.NavigationTimeout.Duration,
		Humanize:          profile,
		DelayMin:          cfg.Delays.Min.Duration,
		DelayMax:          cfg.Delays.Max.Duration,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	started := time.Now()
	if err := run(crawler.New(cfg, session, logger), ctx); err != nil {
		return err
	}
	logger.Info("crawl finished", "elapsed", time.Since(started).Round(time.Second))
	return nil
}

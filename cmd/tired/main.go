// Command tired serves and queries the aircraft tire recommendation
// engine.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/metrics"
	"github.com/TireMDO-25-26/sizing-core/internal/selector"
	"github.com/TireMDO-25-26/sizing-core/internal/tired"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/internal/validation"
	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tired",
		Short:         "Aircraft tire design recommendation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to configuration file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.SetEnvPrefix("TIRED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(), newSelectCmd(), newDatabookCmd(), newValidateCmd())
	return root
}

// loadConfig resolves the configuration from --config / TIRED_CONFIG and
// applies the log level override.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stderr))
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	var httpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the selection daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sel, err := selector.New(cfg)
			if err != nil {
				return err
			}
			collector := metrics.NewCollector()
			sel = sel.WithCollector(collector)
			store := tired.NewJobStore()
			executor := tired.NewExecutor(store, sel).WithCollector(collector)
			server := tired.NewHTTPServer(store, executor, sel).WithMetrics(collector)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpSrv := &http.Server{
				Addr:              httpAddr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
				MaxHeaderBytes:    1 << 20,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", "addr", httpAddr, "backend", sel.Backend())
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutdown requested")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	return cmd
}

func newSelectCmd() *cobra.Command {
	var (
		load     float64
		speed    float64
		families []string
		top      int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Run one selection and print the ranked designs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sel, err := selector.New(cfg)
			if err != nil {
				return err
			}
			req := models.Requirement{RequiredLoad: load, RequiredSpeedIndex: speed}
			ranked, err := sel.Select(cmd.Context(), req, families)
			if err != nil {
				return err
			}
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			if format == "csv" {
				return printRecords(ranked)
			}
			return printJSON(map[string]any{
				"requirement": req,
				"count":       len(ranked),
				"rankings":    ranked,
			})
		},
	}
	cmd.Flags().Float64Var(&load, "load", 0, "required load, lbf")
	cmd.Flags().Float64Var(&speed, "speed", 0, "required speed index, mph")
	cmd.Flags().StringSliceVar(&families, "families", nil, "families to search (default: all configured)")
	cmd.Flags().IntVar(&top, "top", 10, "number of ranked designs to print (0 = all)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, csv)")
	_ = cmd.MarkFlagRequired("load")
	_ = cmd.MarkFlagRequired("speed")
	return cmd
}

func newDatabookCmd() *cobra.Command {
	var (
		load  float64
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "databook",
		Short: "Search the configured catalogs for off-the-shelf matches",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sel, err := selector.New(cfg)
			if err != nil {
				return err
			}
			req := models.Requirement{RequiredLoad: load, RequiredSpeedIndex: speed}
			matches, err := sel.SearchCatalogs(req)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"requirement": req,
				"count":       len(matches),
				"matches":     matches,
			})
		},
	}
	cmd.Flags().Float64Var(&load, "load", 0, "required load, lbf")
	cmd.Flags().Float64Var(&speed, "speed", 0, "required speed index, mph")
	_ = cmd.MarkFlagRequired("load")
	_ = cmd.MarkFlagRequired("speed")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare the sizing model against the configured catalogs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Catalogs) == 0 {
				return fmt.Errorf("no catalogs configured")
			}

			model := tiremodel.New(tiremodel.DefaultConfig())
			solverCfg := mda.Config{
				Tolerance:       cfg.Solver.Tolerance,
				Relative:        cfg.Solver.Relative,
				MaxIterations:   cfg.Solver.MaxIterations,
				InitialPressure: cfg.Solver.InitialPressure,
			}
			solver := mda.New(model, solverCfg)

			policy, err := units.ParseConversionPolicy(cfg.MetricConversion)
			if err != nil {
				return err
			}
			reports := make(map[string]*validation.Report, len(cfg.Catalogs))
			for _, cat := range cfg.Catalogs {
				records, stats, err := validation.LoadCatalog(cat.Path, cat.Construction, policy)
				if err != nil {
					return err
				}
				logger.Info("loaded catalog",
					"catalog", cat.Name, "parsed", stats.Parsed, "skipped", stats.Skipped)
				report, err := validation.Compare(cmd.Context(), model, solver, records)
				if err != nil {
					return fmt.Errorf("catalog %s: %w", cat.Name, err)
				}
				reports[cat.Name] = report
			}
			return printJSON(reports)
		},
	}
	return cmd
}

// printRecords writes the rankings as databook-style rows so they can be
// diffed column-for-column against manufacturer catalogs.
func printRecords(ranked []models.RankedDesign) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(models.RecordColumns); err != nil {
		return err
	}
	for _, rd := range ranked {
		if err := w.Write(rd.FlatRecord()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

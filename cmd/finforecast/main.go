// FinForecast — Historical Financial Statement Fetcher
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spy799/finforecast-ai/api"
	"github.com/spy799/finforecast-ai/internal/config"
	"github.com/spy799/finforecast-ai/internal/datasource"
	"github.com/spy799/finforecast-ai/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finforecast",
	Short: "FinForecast — Historical Financial Statement Fetcher",
	Long: `FinForecast retrieves historical annual income statements for a
company from a prioritized chain of market-data providers (FMP, SAHMK,
SEC EDGAR, Polygon, Yahoo Finance) and normalizes them into a single
schema: Year, Revenue, Operating Income, Net Income, EPS.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinForecast %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [query]",
	Short: "Resolve a company name or ticker to a ticker symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := datasource.NewResolver(nil)
		ticker := resolver.Resolve(cmd.Context(), args[0])
		fmt.Println(ticker)
		return nil
	},
}

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker]",
	Short: "Fetch historical annual income statements for a ticker",
	Long: `Fetch annual income statements through the provider chain. The first
provider that returns data wins; the result is cached. Company names
are resolved to a ticker first.

Examples:
  finforecast fetch AAPL
  finforecast fetch 1120.SR
  finforecast fetch "Saudi Aramco"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		ctx := cmd.Context()

		resolver := datasource.NewResolver(nil)
		ticker := resolver.Resolve(ctx, args[0])

		chain := datasource.NewChain(cfg.Credentials(), datasource.WithCacheTTL(cfg.CacheTTL()))
		if len(cfg.Providers.Order) > 0 {
			chain.Reorder(cfg.Providers.Order)
		}

		var result *models.FetchResult
		if refresh {
			result = chain.FetchFresh(ctx, ticker)
		} else {
			result = chain.Fetch(ctx, ticker)
		}

		printResult(result)
		return nil
	},
}

func init() {
	fetchCmd.Flags().Bool("refresh", false, "bypass the result cache")
}

// printResult renders a fetch result as a fixed-width table.
func printResult(res *models.FetchResult) {
	for _, w := range res.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}

	if len(res.Records) == 0 {
		fmt.Printf("No financial data found for %s.\n", res.Ticker)
		return
	}

	fmt.Printf("%s — annual income statements (source: %s", res.Ticker, res.Source)
	if res.Cached {
		fmt.Print(", cached")
	}
	fmt.Println(")")

	fmt.Printf("%-6s %18s %18s %18s %10s\n", "Year", "Revenue", "Op. Income", "Net Income", "EPS")
	for _, rec := range res.Records {
		fmt.Printf("%-6d %18s %18s %18s %10s\n",
			rec.Year,
			fmtAmount(rec.Revenue),
			fmtAmount(rec.OperatingIncome),
			fmtAmount(rec.NetIncome),
			fmtEPS(rec.EPS),
		)
	}
}

// fmtAmount formats a monetary line item with no decimal places.
func fmtAmount(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}

// fmtEPS formats earnings per share with two decimal places.
func fmtEPS(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			srv.SetServeUI(false)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting FinForecast API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Bool("no-ui", false, "disable the embedded web UI")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  FinForecast — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Provider Order:  %v\n", cfg.Providers.Order)
		fmt.Printf("    Cache TTL:       %s\n", cfg.CacheTTL())
		fmt.Printf("    API Server:      %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// Provider chain as actually built from the credentials
		chain := datasource.NewChain(cfg.Credentials())
		if len(cfg.Providers.Order) > 0 {
			chain.Reorder(cfg.Providers.Order)
		}
		fmt.Println("  Providers:")
		for i, p := range chain.Providers() {
			fmt.Printf("    %d. %s\n", i+1, p.Name())
		}
		fmt.Println()

		// API keys status
		fmt.Println("  Credentials:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-22s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

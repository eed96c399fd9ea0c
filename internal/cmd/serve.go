package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/assistant"
	"github.com/mkoudela/shoplens/internal/config"
	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/logger"
	"github.com/mkoudela/shoplens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ShopLens analytics server",
	Long: `Start the ShopLens server which provides:
- REST API for KPIs, reports, RFM segmentation and plan tracking
- Chat sessions with the AI data analyst`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 ShopLens Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("📂 Loading dataset from %s...\n", cfg.Data.Dir)
	ds, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	fmt.Printf("✅ Dataset loaded: %d orders, %d customers\n", len(ds.Orders), len(ds.Customers))

	fmt.Println("🤖 Setting up assistant client...")
	client, err := assistant.New(&cfg.Assistant)
	if err != nil {
		return fmt.Errorf("failed to create assistant client: %w", err)
	}

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(ds, client, cfg, log)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

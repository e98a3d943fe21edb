package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/cmd"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/config"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
)

// MigrateCmd creates or updates the registry schema.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update the urls table.",
	Long: `Connects to the configured SQLite database and runs the GORM automatic
migration for the link record model.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		if err := db.AutoMigrate(&models.LinkRecord{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}

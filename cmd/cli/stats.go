package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/cmd"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/config"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/repository"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/services"
)

// StatsCmd prints the stored state of one short link.
var StatsCmd = &cobra.Command{
	Use:   "stats [short-code]",
	Short: "Get statistics for a short URL",
	Long:  `Prints the destination, click count and status for the provided short code.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(cobraCmd *cobra.Command, args []string) {
	shortCode := args[0]

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

	linkService := services.NewLinkService(repository.NewLinkRepository(db))

	link, err := linkService.GetLinkByShortCode(context.Background(), shortCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			fmt.Printf("Error: short code '%s' not found\n", shortCode)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	status := "active"
	if !link.IsActive {
		status = "paused"
	}

	fmt.Printf("Statistics for short code: %s\n", link.ShortCode)
	fmt.Printf("Destination: %s\n", link.OriginalURL)
	fmt.Printf("Total clicks: %d\n", link.Clicks)
	fmt.Printf("Status: %s\n", status)
	if link.Password != "" {
		fmt.Println("Password protected: yes")
	}
	if link.ExpiresAt != nil {
		fmt.Printf("Expires: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Created: %s\n", link.CreatedAt.Format("2006-01-02 15:04:05"))
}

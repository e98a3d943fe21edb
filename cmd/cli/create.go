package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/cmd"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/config"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/repository"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/services"
)

var (
	createURLFlag      string
	createCodeFlag     string
	createPasswordFlag string
	createExpiresFlag  int
)

// CreateCmd shortens a URL from the terminal.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a short link for a long URL.",
	Long: `Shortens the provided URL and prints the resulting short code.

Example:
  quicklink create --url="https://www.example.com/some/very/long/path"
  quicklink create --url=example.com --code=my-link --expires-in=7`,
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

		linkService := services.NewLinkService(repository.NewLinkRepository(db))

		link, err := linkService.CreateLink(context.Background(), services.CreateLinkInput{
			OriginalURL:   createURLFlag,
			CustomCode:    createCodeFlag,
			Password:      createPasswordFlag,
			ExpiresInDays: createExpiresFlag,
		})
		if err != nil {
			log.Fatalf("Failed to create short link: %v", err)
		}

		fmt.Printf("Short link created successfully:\n")
		fmt.Printf("Code: %s\n", link.ShortCode)
		fmt.Printf("Full URL: %s/%s\n", cfg.Server.BaseURL, link.ShortCode)
		if link.ExpiresAt != nil {
			fmt.Printf("Expires: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&createCodeFlag, "code", "", "Optional custom short code (3-50 chars, [A-Za-z0-9_-])")
	CreateCmd.Flags().StringVar(&createPasswordFlag, "password", "", "Optional password gating resolution")
	CreateCmd.Flags().IntVar(&createExpiresFlag, "expires-in", 0, "Optional expiry in days from now")
	CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}

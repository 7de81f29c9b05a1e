package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artesanal/internal/adapter/sqlite"
	"artesanal/internal/domain"
	"artesanal/internal/outbox"
)

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Deliver queued form submissions",
	Long:  "Post every pending outbox record to its endpoint and remove the ones that were acknowledged.",
	RunE:  runDrain,
}

func init() {
	rootCmd.AddCommand(drainCmd)
}

func runDrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	repo, err := sqlite.Open(cfg.OutboxPath)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}
	defer func() { _ = repo.Close() }()

	drainer := outbox.NewDrainer(repo, outbox.NewHTTPPoster(), outbox.Endpoints{
		domain.FormContact:    cfg.ContactEndpoint,
		domain.FormNewsletter: cfg.NewsletterEndpoint,
	}, log)

	total := 0
	for _, kind := range []domain.FormKind{domain.FormContact, domain.FormNewsletter} {
		n, err := drainer.Drain(cmd.Context(), kind)
		if err != nil {
			return err
		}
		total += n
	}

	fmt.Fprintf(os.Stderr, "Delivered %d queued submissions.\n", total)
	return nil
}

package run

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/PowerpediaInterns/add-doe-content-template/models"
	"github.com/PowerpediaInterns/add-doe-content-template/pkg/db"
	"github.com/PowerpediaInterns/add-doe-content-template/pkg/mediawiki"
	"github.com/urfave/cli/v2"
)

// RunAction executes one batch: list pages from the bookmark, flag empty DOE
// sections, advance the bookmark, and record the run in the local history
// database. History recording failures are warnings, never run failures.
func RunAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	client, err := mediawiki.NewClient(cfg.APIURL, cfg.InsecureSkipVerify)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	dryRun := c.Bool("dry-run")
	if cfg.Username != "" && !dryRun {
		if err := client.Login(cfg.Username, cfg.Password); err != nil {
			return fmt.Errorf("failed to log in as %s: %w", cfg.Username, err)
		}
		logger.Info("logged in", "user", cfg.Username)
	}

	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	bot := NewBot(client, cfg, logger, dryRun)

	start, err := bot.Bookmark()
	if err != nil {
		return err
	}

	runID, err := database.InsertRun(start, dryRun)
	if err != nil {
		logger.Warn("failed to record run start", "error", err)
	}

	sum, runErr := bot.RunFrom(start)
	if runErr != nil {
		if runID != 0 {
			if err := database.FailRun(runID, runErr.Error()); err != nil {
				logger.Warn("failed to record run failure", "error", err)
			}
		}
		return runErr
	}

	if runID != 0 {
		for _, p := range sum.Pages {
			if err := database.InsertRunPage(runID, p.Title, p.Insertions, p.Edited); err != nil {
				logger.Warn("failed to record page result", "title", p.Title, "error", err)
			}
		}
		if err := database.CompleteRun(runID, sum.NextBookmark, len(sum.Pages),
			sum.EditCount(), sum.InsertCount(), sum.Wrapped); err != nil {
			logger.Warn("failed to record run completion", "error", err)
		}
	}

	fmt.Printf("Run %d: scanned %d pages, edited %d (%d insertions)\n",
		runID, len(sum.Pages), sum.EditCount(), sum.InsertCount())
	if dryRun {
		fmt.Println("Dry run: no pages saved, bookmark unchanged")
	}
	if sum.Wrapped {
		fmt.Println("Reached the end of the wiki; bookmark reset to the start")
	} else {
		fmt.Printf("Next run starts at: %s\n", sum.NextBookmark)
	}

	return nil
}

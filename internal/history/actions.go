// Package history exposes the bot's recorded runs to operators.
package history

import (
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/PowerpediaInterns/add-doe-content-template/pkg/db"
	"github.com/urfave/cli/v2"
)

// HistoryAction lists recent runs as a fixed-width table.
func HistoryAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-7s %-7s %-8s %-8s %-25s\n",
		"ID", "Started", "Status", "Pages", "Edits", "Inserts", "Wrapped", "Next Start")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range runs {
		next := r.NextTitle.String
		if r.Wrapped {
			next = "(start)"
		}
		status := r.Status
		if r.DryRun {
			status += " (dry)"
		}
		fmt.Printf("%-6d %-20s %-10s %-7d %-7d %-8d %-8t %-25s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			status,
			r.PageCount,
			r.EditCount,
			r.InsertCount,
			r.Wrapped,
			next,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'doebot history show <id>' to see per-page results\n")

	return nil
}

// ShowAction prints one run with its per-page results.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := getRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}

	pages, err := database.GetRunPages(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Status:      %s\n", run.Status)
	if run.Error.Valid {
		fmt.Printf("Error:       %s\n", run.Error.String)
	}
	startTitle := run.StartTitle
	if startTitle == "" {
		startTitle = "(start)"
	}
	fmt.Printf("Started at:  %s\n", startTitle)
	if run.Wrapped {
		fmt.Printf("Next start:  (start, wiki exhausted)\n")
	} else if run.NextTitle.Valid {
		fmt.Printf("Next start:  %s\n", run.NextTitle.String)
	}
	fmt.Printf("Pages:       %d scanned, %d edited, %d insertions\n",
		run.PageCount, run.EditCount, run.InsertCount)
	if run.DryRun {
		fmt.Println("Dry run:     no edits were saved")
	}

	if len(pages) > 0 {
		fmt.Printf("\nPages (%d):\n", len(pages))
		fmt.Println(strings.Repeat("-", 60))
		for i, p := range pages {
			mark := " "
			if p.Edited {
				mark = "*"
			}
			fmt.Printf("%3d. %s %s", i+1, mark, p.Title)
			if p.Insertions > 0 {
				fmt.Printf(" (%d empty DOE sections)", p.Insertions)
			}
			fmt.Println()
		}
	}

	return nil
}

// getRunIDOrLatest resolves the run ID argument, defaulting to the most
// recent run when none is given.
func getRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return database.LatestRunID()
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID %q: %w", arg, err)
	}
	return id, nil
}

package main

import (
	"log"
	"os"

	"github.com/PowerpediaInterns/add-doe-content-template/internal/history"
	"github.com/PowerpediaInterns/add-doe-content-template/internal/inspect"
	"github.com/PowerpediaInterns/add-doe-content-template/internal/run"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "doebot",
		Usage: "Flags empty DOE sections on wiki pages with the {{DOE content needed}} template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the bot configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process the next batch of pages and advance the bookmark",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "scan and report without editing pages or moving the bookmark",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
				Action: run.RunAction,
			},
			{
				Name:  "history",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to list",
					},
				},
				Action: history.HistoryAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show one run with its per-page results (defaults to the latest)",
						ArgsUsage: "[run-id]",
						Action:    history.ShowAction,
					},
				},
			},
			{
				Name:  "inspect",
				Usage: "List the rendered sections of one page and flag empty DOE sections",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "page",
						Usage:    "title of the page to inspect",
						Required: true,
					},
				},
				Action: inspect.InspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// Package inspect spot-checks one page: it fetches the wiki-rendered HTML
// and lists the section headings, flagging recognized DOE sections and
// whether each has any body content.
package inspect

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PowerpediaInterns/add-doe-content-template/models"
	"github.com/PowerpediaInterns/add-doe-content-template/pkg/mediawiki"
	"github.com/PowerpediaInterns/add-doe-content-template/pkg/scanner"
	"github.com/PuerkitoBio/goquery"
	"github.com/urfave/cli/v2"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

func InspectAction(c *cli.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	title := c.String("page")

	client, err := mediawiki.NewClient(cfg.APIURL, cfg.InsecureSkipVerify)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	html, err := client.ParseHTML(title)
	if err != nil {
		return fmt.Errorf("failed to fetch rendered page %q: %w", title, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	rules := scanner.NewRules(cfg.DOEHeaders)

	fmt.Printf("Sections of %s:\n", title)
	found := 0
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		found++

		name := strings.TrimSpace(s.Find("span.mw-headline").Text())
		if name == "" {
			// Older skins render the heading text directly in the tag.
			name = strings.TrimSpace(s.Text())
		}

		// Heading level from the tag name (h2 -> 2).
		level := 1
		tag := goquery.NodeName(s)
		if len(tag) == 2 && tag[1] >= '1' && tag[1] <= '6' {
			level = int(tag[1] - '0')
		}

		body := strings.TrimSpace(s.NextUntil(headingSelector).Text())

		flags := make([]string, 0, 2)
		if rules.IsRecognizedName(name) {
			flags = append(flags, "DOE")
		}
		if body == "" {
			flags = append(flags, "empty")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = "  [" + strings.Join(flags, ", ") + "]"
		}

		fmt.Printf("  %s %s%s\n", strings.Repeat("=", level), name, suffix)
	})

	if found == 0 {
		logger.Warn("page has no section headings", "title", title)
		fmt.Println("  (no sections)")
	}

	return nil
}

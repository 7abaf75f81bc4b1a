// Package run implements the bot's batch execution: read the bookmark, list
// the next block of page titles, flag empty DOE sections on each page, and
// advance (or wrap) the bookmark.
package run

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PowerpediaInterns/add-doe-content-template/models"
	"github.com/PowerpediaInterns/add-doe-content-template/pkg/scanner"
)

// Fixed change comments, kept stable so page histories stay greppable.
const (
	editComment     = "Inserted the DOE content needed template."
	bookmarkComment = "Store new page from last execution."
)

// Wiki is the page read/write capability the bot needs from the remote
// service. *mediawiki.Client satisfies it.
type Wiki interface {
	AllPages(from string, limit int) ([]string, error)
	PageLines(title string) ([]string, error)
	SavePage(title, text, comment string) error
}

// PageResult records what happened to one scanned page.
type PageResult struct {
	Title      string
	Insertions int
	Edited     bool
}

// Summary describes one completed batch.
type Summary struct {
	StartTitle   string
	NextBookmark string
	Wrapped      bool
	Pages        []PageResult
}

// EditCount returns how many pages the batch edited.
func (s Summary) EditCount() int {
	n := 0
	for _, p := range s.Pages {
		if p.Edited {
			n++
		}
	}
	return n
}

// InsertCount returns how many placeholders the batch inserted.
func (s Summary) InsertCount() int {
	n := 0
	for _, p := range s.Pages {
		if p.Edited {
			n += p.Insertions
		}
	}
	return n
}

// Bot processes batches of pages. Single-threaded: each page is fetched,
// scanned, and written back before the next one starts.
type Bot struct {
	wiki   Wiki
	rules  scanner.Rules
	cfg    *models.Config
	log    *slog.Logger
	dryRun bool
}

func NewBot(wiki Wiki, cfg *models.Config, log *slog.Logger, dryRun bool) *Bot {
	return &Bot{
		wiki:   wiki,
		rules:  scanner.NewRules(cfg.DOEHeaders),
		cfg:    cfg,
		log:    log,
		dryRun: dryRun,
	}
}

// Bookmark returns the title the next batch starts from: the first line of
// the bookmark page. A missing or blank page means the start of the wiki.
func (b *Bot) Bookmark() (string, error) {
	lines, err := b.wiki.PageLines(b.cfg.BookmarkPage)
	if err != nil {
		return "", fmt.Errorf("failed to read bookmark page %q: %w", b.cfg.BookmarkPage, err)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.TrimSpace(lines[0]), nil
}

// Run reads the bookmark and processes one batch from it.
func (b *Bot) Run() (Summary, error) {
	start, err := b.Bookmark()
	if err != nil {
		return Summary{}, err
	}
	return b.RunFrom(start)
}

// RunFrom processes one batch starting at the given title. The bookmark is
// written only after every page in the batch has been handled, so a failed
// run leaves it untouched and the same batch is retried. Fewer titles than
// the batch size means the wiki is exhausted and the bookmark wraps to "".
func (b *Bot) RunFrom(start string) (Summary, error) {
	titles, err := b.wiki.AllPages(start, b.cfg.BatchSize)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list pages from %q: %w", start, err)
	}
	b.log.Info("processing batch", "start", start, "pages", len(titles))

	sum := Summary{StartTitle: start}
	last := ""
	for _, title := range titles {
		last = title
		res, err := b.processPage(title)
		if err != nil {
			return Summary{}, err
		}
		sum.Pages = append(sum.Pages, res)
	}

	if len(titles) < b.cfg.BatchSize {
		// Wiki exhausted: wrap to the start.
		sum.Wrapped = true
		sum.NextBookmark = ""
	} else {
		sum.NextBookmark = last
	}

	if err := b.setBookmark(sum.NextBookmark); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (b *Bot) setBookmark(title string) error {
	if b.dryRun {
		b.log.Info("dry run, bookmark not stored", "bookmark", title)
		return nil
	}
	if err := b.wiki.SavePage(b.cfg.BookmarkPage, title, bookmarkComment); err != nil {
		return fmt.Errorf("failed to store bookmark: %w", err)
	}
	return nil
}

func (b *Bot) processPage(title string) (PageResult, error) {
	lines, err := b.wiki.PageLines(title)
	if err != nil {
		return PageResult{}, fmt.Errorf("failed to read page %q: %w", title, err)
	}

	points := b.rules.Scan(lines)
	res := PageResult{Title: title, Insertions: len(points)}
	if len(points) == 0 {
		b.log.Debug("no empty DOE sections", "title", title)
		return res, nil
	}

	b.log.Info("inserting placeholder", "title", title, "sections", len(points), "dry_run", b.dryRun)
	if b.dryRun {
		return res, nil
	}

	edited := scanner.Insert(lines, points, b.cfg.Placeholder)
	if err := b.wiki.SavePage(title, strings.Join(edited, "\n"), editComment); err != nil {
		return PageResult{}, fmt.Errorf("failed to save page %q: %w", title, err)
	}
	res.Edited = true
	return res, nil
}

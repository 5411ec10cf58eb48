package ui

import "fmt"

// CrawlProgress prints plain-line progress for a leaderboard crawl.
// One line per page keeps output readable when piped or logged.
type CrawlProgress struct {
	pages int
	rows  int
}

// NewCrawlProgress creates a progress reporter
func NewCrawlProgress() *CrawlProgress {
	return &CrawlProgress{}
}

// PageFetched records one fetched page and prints a progress line
func (p *CrawlProgress) PageFetched(offset, rows int) {
	p.pages++
	p.rows += rows
	if quiet {
		return
	}
	fmt.Printf("%s offset=%d rows=%d total=%d\n",
		render(dimStyle, "fetched page"), offset, rows, p.rows)
}

// PageSkipped records a page restored from a checkpoint
func (p *CrawlProgress) PageSkipped(offset, rows int) {
	p.pages++
	p.rows += rows
	if quiet {
		return
	}
	fmt.Printf("%s offset=%d rows=%d total=%d\n",
		render(dimStyle, "skipped page (checkpoint)"), offset, rows, p.rows)
}

// Done prints the crawl summary
func (p *CrawlProgress) Done() {
	if quiet {
		return
	}
	PrintSuccess(fmt.Sprintf("Crawl complete: %d pages, %d rows", p.pages, p.rows))
}

// Pages returns the number of pages seen so far
func (p *CrawlProgress) Pages() int { return p.pages }

// Rows returns the number of rows seen so far
func (p *CrawlProgress) Rows() int { return p.rows }

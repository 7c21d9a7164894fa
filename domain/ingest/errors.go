package ingest

import "errors"

// Pipeline error kinds. The coordinator wraps these when finalizing a
// failed job so callers can classify the failure with errors.Is.
var (
	// ErrNoScraperAvailable occurs when neither the organiser key nor any
	// URL pattern resolves to a registered capability.
	ErrNoScraperAvailable = errors.New("no scraper available")

	// ErrSiteUnreachable occurs when the connectivity probe fails before
	// any write has happened.
	ErrSiteUnreachable = errors.New("site unreachable")

	// ErrScrapeFailure occurs when a capability fails during fetch or parse.
	ErrScrapeFailure = errors.New("scrape failed")

	// ErrPersistenceFailure occurs when a storage write fails after a
	// successful scrape. No rollback is performed.
	ErrPersistenceFailure = errors.New("persistence failed")
)

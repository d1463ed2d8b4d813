package crawler

import (
	"context"
	"fmt"

	"github.com/mrkutin/legalacts-parser/internal/corpus"
	"github.com/mrkutin/legalacts-parser/internal/extract"
	"github.com/mrkutin/legalacts-parser/internal/walker"
	"github.com/mrkutin/legalacts-parser/pkg/types"
)

// RunLaws walks the paginated federal-laws index and appends every law to a
// single corpus file. The loop stops on the first empty index page, on the
// page limit, or once enough laws have been fetched.
func (e *Engine) RunLaws(ctx context.Context) error {
	w, err := corpus.NewWriter(e.cfg.Output.LawsFile)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer w.Close()

	base := e.cfg.Crawl.BaseURL + lawsIndexPath
	page := e.cfg.Limits.StartPage
	if page < 1 {
		page = 1
	}
	fetched := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		listURL := walker.PageURL(base, page)
		html, err := e.capturePage(ctx, listURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("index page unreachable, stopping", "page", page, "error", err)
			break
		}

		links := walker.ParseLawLinks(html)
		if len(links) == 0 {
			e.logger.Info("empty index page, stopping", "page", page)
			break
		}
		e.logger.Info("processing index page", "page", page, "laws", len(links))

		for _, link := range links {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := e.crawlLaw(ctx, w, listURL, link)
			if err != nil {
				return err
			}
			if ok {
				fetched++
				if max := e.cfg.Limits.MaxLaws; max > 0 && fetched >= max {
					e.logger.Info("law limit reached", "fetched", fetched)
					return nil
				}
			}
			e.humanDelay(ctx)
		}

		page++
		if max := e.cfg.Limits.MaxPages; max > 0 && page > max {
			e.logger.Info("page limit reached", "page", max)
			break
		}
		e.humanDelay(ctx)
	}

	e.logger.Info("laws complete", "fetched", fetched)
	return nil
}

// crawlLaw fetches one law page and appends its record. Capture failures
// skip the law; only write failures propagate. The session returns to the
// list page afterwards either way.
func (e *Engine) crawlLaw(ctx context.Context, w *corpus.Writer, listURL string, link walker.LawLink) (bool, error) {
	rec, fetchErr := e.fetchLaw(ctx, link)
	if fetchErr == nil {
		if err := w.Append(rec); err != nil {
			return false, err
		}
	}

	if err := e.browser.Navigate(ctx, listURL); err != nil {
		e.logger.Warn("return to index failed", "href", link.Href, "error", err)
	}

	if fetchErr != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		e.logger.Warn("law skipped", "href", link.Href, "error", fetchErr)
		return false, nil
	}
	return true, nil
}

func (e *Engine) fetchLaw(ctx context.Context, link walker.LawLink) (types.Record, error) {
	html, err := e.capturePage(ctx, e.cfg.Crawl.BaseURL+link.Href)
	if err != nil {
		return types.Record{}, err
	}
	return types.Record{
		Meta: extract.LawHeader(walker.LawHeaderText(html)),
		Body: walker.LawBodyText(html),
	}, nil
}

package crawler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mrkutin/legalacts-parser/internal/corpus"
	"github.com/mrkutin/legalacts-parser/internal/extract"
	"github.com/mrkutin/legalacts-parser/internal/walker"
	"github.com/mrkutin/legalacts-parser/pkg/types"
)

// RunCodes crawls every selected code into one corpus file per code.
// A failed index page is fatal for that code only; a failed article page
// skips that record.
func (e *Engine) RunCodes(ctx context.Context) error {
	targets, err := e.discoverCodes(ctx)
	if err != nil {
		return fmt.Errorf("discover codes: %w", err)
	}
	targets = filterTargets(targets, e.cfg.Crawl.Codes)
	e.logger.Info("codes discovered", "count", len(targets))

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.processCode(ctx, target); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("code %s: %w", target.Slug, err)
		}
		e.humanDelay(ctx)
	}
	return nil
}

func (e *Engine) discoverCodes(ctx context.Context) ([]types.CrawlTarget, error) {
	html, err := e.capturePage(ctx, e.cfg.Crawl.BaseURL+codesHomePath)
	if err != nil {
		return nil, err
	}
	return walker.ParseCodeLinks(html, e.cfg.Crawl.BaseURL), nil
}

func filterTargets(targets []types.CrawlTarget, allow []string) []types.CrawlTarget {
	if len(allow) == 0 {
		return targets
	}
	allowed := make(map[string]struct{}, len(allow))
	for _, slug := range allow {
		allowed[slug] = struct{}{}
	}
	selected := make([]types.CrawlTarget, 0, len(targets))
	for _, t := range targets {
		if _, ok := allowed[t.Slug]; ok {
			selected = append(selected, t)
		}
	}
	return selected
}

// processCode walks one code's flattened table of contents, carrying the
// breadcrumb context across heading lines and appending one record per
// article.
func (e *Engine) processCode(ctx context.Context, target types.CrawlTarget) error {
	e.humanDelay(ctx)

	html, err := e.capturePage(ctx, target.IndexURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// An unreachable index leaves nothing to walk for this code; the
		// remaining codes are unaffected.
		e.logger.Error("code index unreachable, skipping code", "slug", target.Slug, "error", err)
		return nil
	}
	outline := walker.ParseOutline(html)
	e.logger.Info("processing code", "slug", target.Slug, "name", target.DisplayName, "outline_entries", len(outline))

	w, err := corpus.NewWriter(filepath.Join(e.cfg.Output.Dir, target.Slug+".txt"))
	if err != nil {
		return err
	}
	defer w.Close()

	var crumb types.BreadcrumbContext
	written := 0

	for _, line := range outline {
		if err := ctx.Err(); err != nil {
			return err
		}
		if line.Text == "" && line.Href == "" {
			e.humanDelay(ctx)
			continue
		}

		switch line.Kind {
		case types.HeadingSection, types.HeadingChapter:
			crumb = extract.Advance(crumb, line)

		case types.HeadingArticle:
			ok, err := e.crawlArticle(ctx, w, target, crumb, line)
			if err != nil {
				return err
			}
			if ok {
				written++
				if max := e.cfg.Limits.MaxArticles; max > 0 && written >= max {
					e.logger.Info("article limit reached", "slug", target.Slug, "written", written)
					return nil
				}
			}
		}

		e.humanDelay(ctx)
	}

	e.logger.Info("code complete", "slug", target.Slug, "written", written)
	return nil
}

// crawlArticle fetches one article page and appends its record. Navigation
// and capture failures are logged and reported as a skip; only write
// failures propagate.
func (e *Engine) crawlArticle(ctx context.Context, w *corpus.Writer, target types.CrawlTarget, crumb types.BreadcrumbContext, line types.HeadingLine) (bool, error) {
	number, name := extract.TitleNumberAndName(line.Text, extract.KeywordArticle)
	if name == "" {
		name = line.Text
	}

	html, err := e.capturePage(ctx, e.cfg.Crawl.BaseURL+line.Href)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		e.logger.Warn("article skipped", "slug", target.Slug, "href", line.Href, "error", err)
		return false, nil
	}

	body := extract.CleanArticleText(walker.ArticleText(html))
	updatedAt := extract.FindDateInText(walker.CenterBlockText(html))

	rec := types.Record{
		Meta: types.RecordMeta{
			SectionNumber: crumb.SectionNumber,
			SectionName:   crumb.SectionName,
			ChapterNumber: crumb.ChapterNumber,
			ChapterName:   crumb.ChapterName,
			ArticleNumber: number,
			ArticleName:   name,
			UpdatedAt:     updatedAt,
		},
		Body: body,
	}
	if err := w.Append(rec); err != nil {
		return false, err
	}

	// Back to the index for the next outline entry; a failure here costs
	// nothing, the record is already on disk and article links are absolute.
	if err := e.browser.Navigate(ctx, target.IndexURL); err != nil {
		e.logger.Warn("return to index failed", "slug", target.Slug, "error", err)
	}
	return true, nil
}

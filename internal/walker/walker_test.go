package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrkutin/legalacts-parser/pkg/types"
)

const codesHomeHTML = `<html><body>
<div class="main-center-block-linkslist-noleft ps-0">
  <a href="/kodeks/GK-RF/">Гражданский кодекс</a>
  <a href="/kodeks/UK-RF/">Уголовный кодекс</a>
  <a href="/docs/5/">Федеральные законы</a>
  <a href="/kodeks/empty/"></a>
</div>
</body></html>`

const codeIndexHTML = `<html><body>
<div class="main-center-block col-12 col-lg-8">
  <p class="text-start"><a>Раздел I. Общие положения</a></p>
  <p class="text-start"><a>Глава 1. Основные начала</a></p>
  <p class="text-start"><a href="/kodeks/GK-RF/statya-1/">Статья 1. Предмет</a></p>
  <p class="text-start"></p>
  <p class="text-start"><a>Утратила силу</a></p>
  <p class="text-start"><a href="/kodeks/GK-RF/statya-2/">Статья 2. Отношения</a></p>
</div>
</body></html>`

const lawsPageHTML = `<html><body>
<div class="main-center-block col-12 col-lg-8">
  <div class="pb-4"><a href="/doc/law-297/">Федеральный закон N 297-ФЗ</a></div>
  <div class="pb-4"><a href="/doc/law-44/">Федеральный закон N 44-ФЗ</a></div>
  <div class="pb-4"><a href="/other/x/">Не закон</a></div>
</div>
<ul>
  <li class="page-item"><a class="page-link" href="/docs/5/?page=2">2</a></li>
  <li class="page-item"><a class="page-link" href="/docs/5/?page=57">57</a></li>
  <li class="page-item"><a class="page-link" href="/docs/5/">1</a></li>
</ul>
</body></html>`

func TestParseCodeLinks(t *testing.T) {
	targets := ParseCodeLinks(codesHomeHTML, "https://legalacts.ru")

	require.Len(t, targets, 2)
	assert.Equal(t, "GK-RF", targets[0].Slug)
	assert.Equal(t, "Гражданский кодекс", targets[0].DisplayName)
	assert.Equal(t, "https://legalacts.ru/kodeks/GK-RF/", targets[0].IndexURL)
	assert.Equal(t, "UK-RF", targets[1].Slug)
}

func TestParseOutline(t *testing.T) {
	lines := ParseOutline(codeIndexHTML)
	require.Len(t, lines, 6)

	assert.Equal(t, types.HeadingSection, lines[0].Kind)
	assert.Equal(t, types.HeadingChapter, lines[1].Kind)
	assert.Equal(t, types.HeadingArticle, lines[2].Kind)
	assert.Equal(t, "/kodeks/GK-RF/statya-1/", lines[2].Href)

	// Entry with neither text nor link survives as an unclassified no-op.
	assert.Equal(t, types.HeadingUnclassified, lines[3].Kind)
	assert.Empty(t, lines[3].Text)
	assert.Empty(t, lines[3].Href)

	assert.Equal(t, types.HeadingUnclassified, lines[4].Kind)
	assert.Equal(t, types.HeadingArticle, lines[5].Kind)
}

func TestParseLawLinks(t *testing.T) {
	links := ParseLawLinks(lawsPageHTML)
	require.Len(t, links, 2)
	assert.Equal(t, "/doc/law-297/", links[0].Href)
	assert.Equal(t, "Федеральный закон N 44-ФЗ", links[1].Text)
}

func TestParseLawLinksEmptyPage(t *testing.T) {
	assert.Empty(t, ParseLawLinks(`<html><body><div class="main-center-block col-12 col-lg-8"></div></body></html>`))
}

func TestMaxPage(t *testing.T) {
	assert.Equal(t, 57, MaxPage(lawsPageHTML))
	assert.Equal(t, 1, MaxPage(`<html><body></body></html>`))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://legalacts.ru/docs/5/", PageURL("https://legalacts.ru/docs/5/", 1))
	assert.Equal(t, "https://legalacts.ru/docs/5/?page=2", PageURL("https://legalacts.ru/docs/5/", 2))
}

func TestSlugFromHref(t *testing.T) {
	assert.Equal(t, "GK-RF", SlugFromHref("/kodeks/GK-RF/"))
	assert.Equal(t, "solo", SlugFromHref("/solo/"))
	assert.Equal(t, "", SlugFromHref(""))
}

func TestArticleText(t *testing.T) {
	page := `<html><body>
<div class="main-center-block">
  редакция от 01.02.2020, действует с 15.03.2021
  <div class="main-center-block-article-text">
    <p>Статья 1. Предмет</p>
    <p>Первый абзац.</p>
    <p>Второй абзац.</p>
  </div>
</div>
</body></html>`

	assert.Equal(t, "Статья 1. Предмет\nПервый абзац.\nВторой абзац.", ArticleText(page))
	assert.Contains(t, CenterBlockText(page), "15.03.2021")
}

package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const lawPageHTML = `<html><body>
<div class="main-center-block col-12 col-lg-8">
  <h1 class="main-center-block-title pb-4">Федеральный закон от 14.07.2022 N 236-ФЗ<br>“О Фонде пенсионного и социального страхования”</h1>
  <p class="pCenter">РОССИЙСКАЯ ФЕДЕРАЦИЯ</p>
  <p class="pBoth">Статья 1. Общие положения.</p>
  <p class="lead">Комментарий, который не входит в текст.</p>
  <p class="pRight">Президент Российской Федерации</p>
</div>
</body></html>`

func TestLawHeaderText(t *testing.T) {
	got := LawHeaderText(lawPageHTML)
	assert.Equal(t, "Федеральный закон от 14.07.2022 N 236-ФЗ\n“О Фонде пенсионного и социального страхования”", got)
}

func TestLawHeaderTextMissing(t *testing.T) {
	assert.Equal(t, "", LawHeaderText(`<html><body><p>нет заголовка</p></body></html>`))
}

func TestLawBodyText(t *testing.T) {
	got := LawBodyText(lawPageHTML)
	assert.Equal(t, "РОССИЙСКАЯ ФЕДЕРАЦИЯ\nСтатья 1. Общие положения.\nПрезидент Российской Федерации", got)
}

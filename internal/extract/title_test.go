package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleNumberAndName(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		keyword    string
		wantNumber string
		wantName   string
	}{
		{
			name:       "dotted article number",
			title:      "Статья 241.2. Утрата права",
			keyword:    "Статья",
			wantNumber: "241.2",
			wantName:   "Утрата права",
		},
		{
			name:       "fallback whitespace split",
			title:      "Глава 5 Общие положения",
			keyword:    "Глава",
			wantNumber: "5",
			wantName:   "Общие положения",
		},
		{
			name:       "roman numeral section",
			title:      "Раздел IV. Заключительные положения",
			keyword:    "Раздел",
			wantNumber: "IV",
			wantName:   "Заключительные положения",
		},
		{
			name:       "hyphenated sub-part",
			title:      "Статья 12.1-1: Новая редакция",
			keyword:    "Статья",
			wantNumber: "12.1-1",
			wantName:   "Новая редакция",
		},
		{
			name:       "uppercase keyword",
			title:      "ГЛАВА 2. Права",
			keyword:    "Глава",
			wantNumber: "2",
			wantName:   "Права",
		},
		{
			name:       "keyword absent",
			title:      "Преамбула",
			keyword:    "Статья",
			wantNumber: "",
			wantName:   "Преамбула",
		},
		{
			name:       "keyword only",
			title:      "Статья",
			keyword:    "Статья",
			wantNumber: "",
			wantName:   "Статья",
		},
		{
			name:       "empty title",
			title:      "",
			keyword:    "Раздел",
			wantNumber: "",
			wantName:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, name := TitleNumberAndName(tt.title, tt.keyword)
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestFindDateInText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "last date wins",
			text: "ред. от 01.02.2020 с изм. действует с 15.03.2021",
			want: "15.03.2021",
		},
		{
			name: "single date",
			text: "Принят 05.06.1999 года",
			want: "05.06.1999",
		},
		{
			name: "no date",
			text: "без даты",
			want: "",
		},
		{
			name: "date glued to words is ignored",
			text: "x01.02.2020y",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindDateInText(tt.text))
		})
	}
}

func TestLawHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantNumber string
		wantName   string
		wantDate   string
	}{
		{
			name:       "marked number and typographic quotes",
			header:     "Федеральный закон от 14.07.2022 N 297-ФЗ\n“О внесении изменений”",
			wantNumber: "297-ФЗ",
			wantName:   "О внесении изменений",
			wantDate:   "14.07.2022",
		},
		{
			name:       "bare number and straight quotes",
			header:     "Федеральный закон 44-ФЗ от 05.04.2013\n\"О контрактной системе\"",
			wantNumber: "44-ФЗ",
			wantName:   "О контрактной системе",
			wantDate:   "05.04.2013",
		},
		{
			name:       "last line fallback for name",
			header:     "Федеральный закон от 29.12.2012 № 273-ФЗ\nОб образовании в Российской Федерации",
			wantNumber: "273-ФЗ",
			wantName:   "Об образовании в Российской Федерации",
			wantDate:   "29.12.2012",
		},
		{
			name:       "dotted law number segment",
			header:     "№ 44.1-2-ФЗ",
			wantNumber: "44.1-2-ФЗ",
			wantName:   "№ 44.1-2-ФЗ",
			wantDate:   "",
		},
		{
			name:       "empty header",
			header:     "",
			wantNumber: "",
			wantName:   "",
			wantDate:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := LawHeader(tt.header)
			assert.Equal(t, tt.wantNumber, meta.LawNumber)
			assert.Equal(t, tt.wantName, meta.LawName)
			assert.Equal(t, tt.wantDate, meta.UpdatedAt)
		})
	}
}

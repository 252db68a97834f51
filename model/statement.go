package model

import "fmt"

// Statement 为审判选项的陈述类型，决定选项左上角的图标。
type Statement int

const (
	StatementAgreement Statement = iota
	StatementDoubt
	StatementPerjury
	StatementRefutation
	StatementMagicChiyuSaisei
	StatementMagicEkitaiSousa
	StatementMagicFuyuu
	StatementMagicGenshi
	StatementMagicHakka
	StatementMagicIrekawari
	StatementMagicKairiki
	StatementMagicMajoGoroshi
	StatementMagicMonomane
	StatementMagicSennou
	StatementMagicSenrigan
	StatementMagicShiniModori
	StatementMagicShisenYuudou

	statementCount
)

var statementNames = [...]string{
	StatementAgreement:         "Agreement",
	StatementDoubt:             "Doubt",
	StatementPerjury:           "Perjury",
	StatementRefutation:        "Refutation",
	StatementMagicChiyuSaisei:  "Magic Chiyu & Saisei",
	StatementMagicEkitaiSousa:  "Magic Ekitai Sousa",
	StatementMagicFuyuu:        "Magic Fuyuu",
	StatementMagicGenshi:       "Magic Genshi",
	StatementMagicHakka:        "Magic Hakka",
	StatementMagicIrekawari:    "Magic Irekawari",
	StatementMagicKairiki:      "Magic Kairiki",
	StatementMagicMajoGoroshi:  "Magic Majo Goroshi",
	StatementMagicMonomane:     "Magic Monomane",
	StatementMagicSennou:       "Magic Sennou",
	StatementMagicSenrigan:     "Magic Senrigan",
	StatementMagicShiniModori:  "Magic Shini Modori",
	StatementMagicShisenYuudou: "Magic Shisen Yuudou",
}

var _ [statementCount]string = statementNames

// Valid 报告 s 是否为已定义的陈述类型。
func (s Statement) Valid() bool { return s >= 0 && s < statementCount }

// IsMagic 报告 s 是否为魔法类陈述。
func (s Statement) IsMagic() bool { return s >= StatementMagicChiyuSaisei && s < statementCount }

func (s Statement) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Statement(%d)", int(s))
	}
	return statementNames[s]
}

// Statements 按定义顺序返回全部陈述类型。
func Statements() []Statement {
	out := make([]Statement, 0, statementCount)
	for s := Statement(0); s < statementCount; s++ {
		out = append(out, s)
	}
	return out
}

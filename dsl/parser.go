package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoOptionLines 表示消息中没有任何一行符合选项语法。
var ErrNoOptionLines = errors.New("消息中没有选项行")

var (
	// 选项行形如 【类型】文本 或 【类型:参数】文本，冒号可为全角。
	trialLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Open", Pattern: `【`, Action: lexer.Push("Head")},
		},
		"Head": {
			{Name: "Close", Pattern: `】`, Action: lexer.Push("Body")},
			{Name: "Colon", Pattern: `[:：]`, Action: nil},
			{Name: "Word", Pattern: `[^】:：\n]+`, Action: nil},
		},
		"Body": {
			{Name: "Text", Pattern: `[^\n]+`, Action: nil},
		},
	})

	lineParser = participle.MustBuild[trialLine](
		participle.Lexer(trialLexer),
	)
)

// trialLine 是单行选项的语法树。正文可以为空，由 model.NewOption 报告空文本。
type trialLine struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Kind string         `parser:"Open @Word"`
	Arg  *string        `parser:"( Colon @( Word | Colon )* )?"`
	Text string         `parser:"Close @Text?"`
}

// OptionLine 为解析出的一行选项，Kind 与 Arg 保持原样，由调用方标准化。
type OptionLine struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Arg    string `json:"arg,omitempty"`
	HasArg bool   `json:"hasArg,omitempty"`
	Text   string `json:"text"`
}

func (l *OptionLine) String() string {
	if l.HasArg {
		return fmt.Sprintf("【%s:%s】%s", l.Kind, l.Arg, l.Text)
	}
	return fmt.Sprintf("【%s】%s", l.Kind, l.Text)
}

// ParseLine 解析单行选项，行首必须是【。
func ParseLine(line string) (*OptionLine, error) {
	parsed, err := lineParser.ParseString("", strings.TrimRight(line, "\r"))
	if err != nil {
		return nil, err
	}
	out := &OptionLine{Kind: parsed.Kind, Text: parsed.Text}
	if parsed.Arg != nil {
		out.Arg = *parsed.Arg
		out.HasArg = true
	}
	return out, nil
}

// ParseTrial 逐行解析消息，不符合选项语法的行被忽略。
// 没有任何选项行时返回 ErrNoOptionLines。
func ParseTrial(message string) ([]*OptionLine, error) {
	var lines []*OptionLine
	for i, raw := range strings.Split(message, "\n") {
		if !strings.HasPrefix(raw, "【") {
			continue
		}
		line, err := ParseLine(raw)
		if err != nil {
			continue
		}
		line.Line = i + 1
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrNoOptionLines
	}
	return lines, nil
}

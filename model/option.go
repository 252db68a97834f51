package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxOptionTextLength 为选项文本的最大字符数。
const MaxOptionTextLength = 200

// Option 为一个审判选项，构造后不可修改。
type Option struct {
	statement Statement
	text      string
}

// NewOption 校验并构造选项，保存的文本为去除首尾空白后的结果。
func NewOption(statement Statement, text string) (Option, error) {
	if !statement.Valid() {
		return Option{}, fmt.Errorf("%w: %v", ErrUnknownStatement, statement)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Option{}, &Error{Code: ErrEmptyText}
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxOptionTextLength {
		return Option{}, &Error{
			Code: ErrTextTooLong,
			Hint: fmt.Sprintf("最多 %d 个字符，当前 %d 个", MaxOptionTextLength, n),
		}
	}
	return Option{statement: statement, text: trimmed}, nil
}

func (o Option) Statement() Statement { return o.statement }
func (o Option) Text() string         { return o.text }

func (o Option) String() string {
	preview := o.text
	if utf8.RuneCountInString(preview) > 50 {
		preview = string([]rune(preview)[:50]) + "..."
	}
	return fmt.Sprintf("Option(statement=%v, text=%s)", o.statement, preview)
}

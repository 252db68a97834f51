package model

import (
	"errors"
	"fmt"
	"strings"
)

// 校验错误分类，均可通过 errors.Is 判断。
var (
	ErrInvalidKind      = errors.New("无效的陈述类型")
	ErrMissingArgument  = errors.New("缺少参数")
	ErrInvalidCharacter = errors.New("无效的角色")
	ErrInvalidFace      = errors.New("无效的表情")
	ErrEmptyText        = errors.New("文本不能为空")
	ErrTextTooLong      = errors.New("文本过长")
	ErrUnknownStatement = errors.New("未知的陈述类型")
)

// Error 携带用户输入与合法取值，Error() 的结果可以直接展示给用户。
type Error struct {
	Code  error
	Input string
	Hint  string
	Legal []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.Error())
	if e.Input != "" {
		fmt.Fprintf(&b, " '%s'", e.Input)
	}
	if e.Hint != "" {
		b.WriteString("，")
		b.WriteString(e.Hint)
	}
	if len(e.Legal) > 0 {
		b.WriteString("，请从以下选项中选择：")
		b.WriteString(strings.Join(e.Legal, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Code }

// IsValidation 报告 err 是否为用户输入校验失败（可以原样回复给用户）。
// ErrUnknownStatement 属于内部一致性错误，不在此列。
func IsValidation(err error) bool {
	for _, code := range []error{
		ErrInvalidKind,
		ErrMissingArgument,
		ErrInvalidCharacter,
		ErrInvalidFace,
		ErrEmptyText,
		ErrTextTooLong,
	} {
		if errors.Is(err, code) {
			return true
		}
	}
	return false
}

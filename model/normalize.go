package model

import "strings"

// Normalize 标准化用户输入：去除首尾空白、将全角空格转为半角、合并连续空白为一个空格。
// 全空白输入返回空串，由调用方决定如何拒绝。
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\u3000", " ")
	return strings.Join(strings.Fields(s), " ")
}

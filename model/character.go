package model

import "fmt"

// Character 为审判图中发言的角色。
type Character int

const (
	CharacterEma Character = iota
	CharacterHiro

	characterCount
)

// DefaultCharacter 为未切换过角色的会话所使用的角色。
const DefaultCharacter = CharacterEma

var characterNames = [...]string{
	CharacterEma:  "艾玛",
	CharacterHiro: "希罗",
}

var characterCodes = [...]string{
	CharacterEma:  "Ema",
	CharacterHiro: "Hiro",
}

// 表长必须与枚举数量一致，新增角色而漏填表项会在编译期报错。
var (
	_ [characterCount]string = characterNames
	_ [characterCount]string = characterCodes
)

// Valid 报告 c 是否为已定义的角色。
func (c Character) Valid() bool { return c >= 0 && c < characterCount }

// DisplayName 返回角色的中文名，也是持久化时使用的名字。
func (c Character) DisplayName() string {
	if !c.Valid() {
		return ""
	}
	return characterNames[c]
}

// Code 返回角色的资源名（如 Ema），用于拼接立绘文件名。
func (c Character) Code() string {
	if !c.Valid() {
		return ""
	}
	return characterCodes[c]
}

func (c Character) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Character(%d)", int(c))
	}
	return characterCodes[c]
}

// Characters 按定义顺序返回全部角色。
func Characters() []Character {
	out := make([]Character, 0, characterCount)
	for c := Character(0); c < characterCount; c++ {
		out = append(out, c)
	}
	return out
}

// CharacterNames 返回全部角色的中文名。
func CharacterNames() []string {
	return append([]string(nil), characterNames[:]...)
}

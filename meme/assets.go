package meme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/manosaba/model"
)

// 资源目录内的相对路径。
const (
	ananDir       = "anan"
	ananBase      = "anan/base.png"
	ananOverlay   = "anan/base_overlay.png"
	signFont      = "fonts/SourceHanSansSC-Bold.otf"
	trialFont     = "fonts/SourceHanSerifSC.otf"
	trialCanvas   = "trial/black.png"
	trialBack     = "trial/background.png"
	trialOption   = "trial/option.png"
	trialIconsDir = "trial"
)

// statementIcons 为每种陈述对应的图标文件名，必须覆盖全部陈述。
var statementIcons = map[model.Statement]string{
	model.StatementAgreement:         "agreement.png",
	model.StatementDoubt:             "doubt.png",
	model.StatementPerjury:           "perjury.png",
	model.StatementRefutation:        "refutation.png",
	model.StatementMagicChiyuSaisei:  "magic_chiyusaisei.png",
	model.StatementMagicEkitaiSousa:  "magic_ekitaisousa.png",
	model.StatementMagicFuyuu:        "magic_fuyuu.png",
	model.StatementMagicGenshi:       "magic_genshi.png",
	model.StatementMagicHakka:        "magic_hakka.png",
	model.StatementMagicIrekawari:    "magic_irekawari.png",
	model.StatementMagicKairiki:      "magic_kairiki.png",
	model.StatementMagicMajoGoroshi:  "magic_majogoroshi.png",
	model.StatementMagicMonomane:     "magic_monomane.png",
	model.StatementMagicSennou:       "magic_sennou.png",
	model.StatementMagicSenrigan:     "magic_senrigan.png",
	model.StatementMagicShiniModori:  "magic_shinimodori.png",
	model.StatementMagicShisenYuudou: "magic_shisenyuudou.png",
}

// Assets 负责把领域值映射为资源文件路径，所有路径都位于 Dir 之下。
type Assets struct {
	Dir string
}

func (a Assets) path(rel string) string {
	return filepath.Join(a.Dir, filepath.FromSlash(rel))
}

// AnanBase 返回安安举牌图的底图。face 为空时使用默认表情。
// 先校验白名单，再只取文件名部分拼接路径，两步缺一不可。
func (a Assets) AnanBase(face string) (string, error) {
	if face == "" {
		return a.path(ananBase), nil
	}
	if err := model.CheckFace(face); err != nil {
		return "", err
	}
	safe := filepath.Base(filepath.Clean(face))
	if safe == "." || safe == ".." || strings.ContainsAny(safe, `/\`) {
		return "", &model.Error{Code: model.ErrInvalidFace, Input: face, Legal: model.FaceNames()}
	}
	return filepath.Join(a.path(ananDir), safe+".png"), nil
}

// AnanOverlay 返回盖在文字上方的手部图层。
func (a Assets) AnanOverlay() string { return a.path(ananOverlay) }

// SignFont 返回素描本文字字体。
func (a Assets) SignFont() string { return a.path(signFont) }

// TrialFont 返回审判图选项文字字体。
func (a Assets) TrialFont() string { return a.path(trialFont) }

// TrialCanvas 返回审判图最底层的纯色画布。
func (a Assets) TrialCanvas() string { return a.path(trialCanvas) }

// TrialBackground 返回审判图背景。
func (a Assets) TrialBackground() string { return a.path(trialBack) }

// OptionBox 返回选项框底图。
func (a Assets) OptionBox() string { return a.path(trialOption) }

// Portrait 返回角色立绘。
func (a Assets) Portrait(c model.Character) (string, error) {
	if !c.Valid() {
		return "", &model.Error{Code: model.ErrInvalidCharacter, Input: c.String(), Legal: model.CharacterNames()}
	}
	return a.path(trialIconsDir + "/" + strings.ToLower(c.Code()) + ".png"), nil
}

// StatementIcon 返回陈述图标。表外的陈述属于内部错误，直接失败。
func (a Assets) StatementIcon(st model.Statement) (string, error) {
	name, ok := statementIcons[st]
	if !ok {
		return "", fmt.Errorf("查找陈述图标失败: %w: %v", model.ErrUnknownStatement, st)
	}
	return a.path(trialIconsDir + "/" + name), nil
}

// Required 列出渲染所需的全部资源文件。
func (a Assets) Required() []string {
	paths := []string{
		a.path(ananBase),
		a.AnanOverlay(),
		a.TrialCanvas(),
		a.TrialBackground(),
		a.OptionBox(),
	}
	for _, face := range model.FaceNames() {
		p, _ := a.AnanBase(face)
		paths = append(paths, p)
	}
	for _, c := range model.Characters() {
		p, _ := a.Portrait(c)
		paths = append(paths, p)
	}
	for _, st := range model.Statements() {
		p, _ := a.StatementIcon(st)
		paths = append(paths, p)
	}
	return paths
}

// Missing 返回资源目录中缺失的文件；字体缺失时渲染器会退回内置字体，因此单独列出。
func (a Assets) Missing() (images []string, fonts []string) {
	for _, p := range a.Required() {
		if _, err := os.Stat(p); err != nil {
			images = append(images, p)
		}
	}
	for _, p := range []string{a.SignFont(), a.TrialFont()} {
		if _, err := os.Stat(p); err != nil {
			fonts = append(fonts, p)
		}
	}
	return images, fonts
}

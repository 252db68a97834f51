package meme

import (
	"fmt"
	"strings"

	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/model"
	"github.com/ByLCY/manosaba/renderer"
)

// Service 按固定顺序把资源与文字交给渲染器，自身不处理像素。
type Service struct {
	renderer renderer.Renderer
	assets   Assets
}

// NewService 创建表情包生成服务。
func NewService(r renderer.Renderer, assets Assets) *Service {
	return &Service{renderer: r, assets: assets}
}

// Assets 返回服务使用的资源目录。
func (s *Service) Assets() Assets { return s.assets }

// RenderTrial 绘制审判选项图：背景、角色立绘，然后按输入顺序绘制每个选项的框、文字与图标。
func (s *Service) RenderTrial(c model.Character, options []model.Option) ([]byte, error) {
	plan, err := layout.PlanTrial(len(options))
	if err != nil {
		return nil, err
	}
	portrait, err := s.assets.Portrait(c)
	if err != nil {
		return nil, err
	}
	icons := make([]string, len(options))
	for i, opt := range options {
		if icons[i], err = s.assets.StatementIcon(opt.Statement()); err != nil {
			return nil, err
		}
	}

	d, err := s.renderer.NewDrawer(s.assets.TrialCanvas(), s.assets.TrialFont())
	if err != nil {
		return nil, fmt.Errorf("加载审判画布失败: %w", err)
	}
	blend := layout.PasteStyle{KeepAlpha: false}
	if err := d.PasteImage(s.assets.TrialBackground(), plan.Background, blend); err != nil {
		return nil, fmt.Errorf("绘制背景失败: %w", err)
	}
	if err := d.PasteImage(portrait, plan.Portrait, blend); err != nil {
		return nil, fmt.Errorf("绘制角色 %s 失败: %w", c.DisplayName(), err)
	}
	for i, opt := range options {
		slot := plan.Options[i]
		if err := d.PasteImage(s.assets.OptionBox(), slot.Box, blend); err != nil {
			return nil, fmt.Errorf("绘制第 %d 个选项框失败: %w", i+1, err)
		}
		if err := d.DrawText(opt.Text(), slot.Text, plan.TextStyle); err != nil {
			return nil, fmt.Errorf("绘制第 %d 个选项文字失败: %w", i+1, err)
		}
		if err := d.PasteImage(icons[i], slot.Icon, blend); err != nil {
			return nil, fmt.Errorf("绘制第 %d 个选项图标失败: %w", i+1, err)
		}
	}
	out, err := d.Finish()
	if err != nil {
		return nil, fmt.Errorf("输出审判图失败: %w", err)
	}
	return out, nil
}

// RenderSign 绘制安安举牌图，文字自动缩放以填满素描本。face 为空时使用默认表情。
func (s *Service) RenderSign(text, face string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &model.Error{Code: model.ErrEmptyText}
	}
	base, err := s.assets.AnanBase(face)
	if err != nil {
		return nil, err
	}
	out, err := s.renderer.FitText(renderer.FitRequest{
		BaseImage:    base,
		Font:         s.assets.SignFont(),
		OverlayImage: s.assets.AnanOverlay(),
		Region:       layout.SignRegion(),
		Text:         text,
		Style:        layout.SignTextStyle(),
	})
	if err != nil {
		return nil, fmt.Errorf("绘制举牌图失败: %w", err)
	}
	return out, nil
}

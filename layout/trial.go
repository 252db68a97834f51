package layout

// 审判图画布与元素的固定几何参数（单位：像素）。
const (
	TrialWidth  = 1260
	TrialHeight = 1080

	// PortraitX 为角色立绘区域的左边界，立绘区域延伸到画布右下角。
	PortraitX = 667

	StatementIconWidth  = 146
	StatementIconHeight = 128
	StatementOffsetX    = 21
	StatementOffsetY    = -43

	TextOffsetX   = 109
	TextOffsetY   = 32
	TextWidth     = 589
	TextHeight    = 150
	MaxFontHeight = 48
)

// 安安举牌图中素描本的文字区域。
const (
	SignRegionX      = 100
	SignRegionY      = 432
	SignRegionWidth  = 319
	SignRegionHeight = 204
)

var (
	// TextColor 为选项正文颜色。
	TextColor = RGB(39, 33, 30)
	// BracketColor 为选项中括号片段的颜色。
	BracketColor = RGB(137, 87, 206)
	// SignTextColor 为素描本上的文字颜色。
	SignTextColor = RGB(0, 0, 0)
)

// PlanTrial 计算 count 个选项的审判图布局。
func PlanTrial(count int) (*TrialPlan, error) {
	anchors, err := OptionPositions(count)
	if err != nil {
		return nil, err
	}

	bracket := BracketColor
	plan := &TrialPlan{
		Width:      TrialWidth,
		Height:     TrialHeight,
		Background: Rect{X0: 0, Y0: 0, X1: TrialWidth, Y1: TrialHeight},
		Portrait:   Rect{X0: PortraitX, Y0: 0, X1: TrialWidth, Y1: TrialHeight},
		Options:    make([]OptionSlot, 0, len(anchors)),
		TextStyle: TextStyle{
			Color:         TextColor,
			BracketColor:  &bracket,
			MaxFontHeight: MaxFontHeight,
		},
	}
	for _, p := range anchors {
		plan.Options = append(plan.Options, OptionSlot{
			Anchor: p,
			Box:    RectAt(p.X, p.Y, OptionWidth, OptionHeight),
			Text:   RectAt(p.X+TextOffsetX, p.Y+TextOffsetY, TextWidth, TextHeight),
			Icon:   RectAt(p.X+StatementOffsetX, p.Y+StatementOffsetY, StatementIconWidth, StatementIconHeight),
		})
	}
	return plan, nil
}

// SignRegion 返回素描本上可写字的区域。
func SignRegion() Rect {
	return RectAt(SignRegionX, SignRegionY, SignRegionWidth, SignRegionHeight)
}

// SignTextStyle 返回素描本文字样式，字号由渲染器自动适配。
func SignTextStyle() TextStyle {
	bracket := BracketColor
	return TextStyle{Color: SignTextColor, BracketColor: &bracket}
}

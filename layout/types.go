package layout

// 该文件定义布局结果与绘制样式，供布局计算、渲染与调试 JSON 共用。

// Point 为像素坐标，原点在左上角。
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect 以左上角 (X0, Y0) 与右下角 (X1, Y1) 描述一个矩形区域，右下角不包含在内。
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// RectAt 由左上角与宽高构造矩形。
func RectAt(x, y, width, height int) Rect {
	return Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

func (r Rect) Width() int  { return r.X1 - r.X0 }
func (r Rect) Height() int { return r.Y1 - r.Y0 }

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB 构造不透明颜色。
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// PasteStyle 控制贴图时的透明度处理方式。
// KeepAlpha 为 false 时按透明度混合到底图上；为 true 时直接替换区域内的像素（包括透明度）。
type PasteStyle struct {
	KeepAlpha bool `json:"keepAlpha"`
}

// TextStyle 描述区域内文字的颜色与字号上限。
type TextStyle struct {
	Color Color `json:"color"`
	// BracketColor 用于【】或 [] 括起来的片段（包含括号本身），为空时沿用 Color。
	BracketColor *Color `json:"bracketColor,omitempty"`
	// MaxFontHeight 为字号上限（像素），<=0 表示以区域高度为上限。
	MaxFontHeight float64 `json:"maxFontHeight,omitempty"`
}

// SpanColor 返回括号片段使用的颜色。
func (s TextStyle) SpanColor() Color {
	if s.BracketColor != nil {
		return *s.BracketColor
	}
	return s.Color
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// OptionSlot 为单个选项在审判图中占用的区域。
type OptionSlot struct {
	Anchor Point `json:"anchor"`
	Box    Rect  `json:"box"`
	Text   Rect  `json:"text"`
	Icon   Rect  `json:"icon"`
}

// TrialPlan 记录一张审判图全部元素的区域，渲染器按顺序绘制。
type TrialPlan struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Background Rect         `json:"background"`
	Portrait   Rect         `json:"portrait"`
	Options    []OptionSlot `json:"options"`
	TextStyle  TextStyle    `json:"textStyle"`
}

package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// fontSize 与 lineHeight 均为像素。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64) ([]TextLine, error)
}

// DefaultLineStretch 为行高相对字号的倍数。
const DefaultLineStretch = 1.2

// TextBlockHeight 返回排好的行的总高度：Σ(GapBefore + Height)。
func TextBlockHeight(lines []TextLine) float64 {
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	return total
}

// TextBlockWidth 返回最宽一行的宽度。
func TextBlockWidth(lines []TextLine) float64 {
	widest := 0.0
	for _, ln := range lines {
		if ln.Width > widest {
			widest = ln.Width
		}
	}
	return widest
}

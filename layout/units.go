package layout

// 渲染器以 1 画布单位（mm）= 1 像素栅格化，字体系统使用 pt，这里提供两者的换算。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt 将像素字号换算为 pt（栅格化分辨率为每 mm 一个像素）。
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx 将 pt 换算回像素。
func PtToPx(pt float64) float64 { return pt * PtToMm }

package renderer

import "github.com/ByLCY/manosaba/layout"

// Drawer 在一张底图上依次贴图、写字，最后编码为图片字节。
// 资源路径为绝对路径或相对于渲染器资源目录的路径。
type Drawer interface {
	PasteImage(src string, region layout.Rect, style layout.PasteStyle) error
	DrawText(text string, region layout.Rect, style layout.TextStyle) error
	// Finish 返回 PNG 编码后的图片，调用后 Drawer 不应再使用。
	Finish() ([]byte, error)
}

// FitRequest 描述一次"把文字自动缩放塞进区域"的绘制。
type FitRequest struct {
	BaseImage    string
	Font         string
	OverlayImage string // 可选，文字绘制完后覆盖在最上层
	Region       layout.Rect
	Text         string
	Style        layout.TextStyle
}

// Renderer 负责所有像素层面的工作，调用方只提供资源路径与区域。
type Renderer interface {
	NewDrawer(baseImage, font string) (Drawer, error)
	FitText(req FitRequest) ([]byte, error)
}

package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/fonts"
	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/renderer"
)

const defaultMinFontHeight = 8.0

// Renderer composes raster images with github.com/disintegration/imaging and
// typesets text with github.com/tdewolff/canvas.
type Renderer struct {
	baseDir       string
	minFontHeight float64

	// injected resources
	fontBlobs  map[string][]byte // by unique name
	imageBlobs map[string][]byte // by unique name
	fontErrs   map[string]error  // Path 读取失败的注入资源
	imageErrs  map[string]error

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir       string
	MinFontHeight float64             // 自动缩放时允许的最小字号（像素）
	Fonts         map[string]Resource // built-in fonts accessible via built-in:<name>
	Images        map[string]Resource // built-in images accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:       opts.BaseDir,
		minFontHeight: opts.MinFontHeight,
		fontBlobs:     map[string][]byte{},
		imageBlobs:    map[string][]byte{},
		fontErrs:      map[string]error{},
		imageErrs:     map[string]error{},
		fontFamilies:  map[string]*canvas.FontFamily{},
	}
	if r.minFontHeight <= 0 {
		r.minFontHeight = defaultMinFontHeight
	}
	ingest(r.fontBlobs, r.fontErrs, opts.Fonts)
	ingest(r.imageBlobs, r.imageErrs, opts.Images)
	return r
}

// ingest 载入注入资源；读取失败的记录在 errs 中，使用该资源时再报告。
func ingest(dst map[string][]byte, errs map[string]error, resources map[string]Resource) {
	for name, res := range resources {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			dst[name] = res.Bytes
			continue
		}
		if res.Path == "" {
			continue
		}
		data, err := os.ReadFile(res.Path)
		if err == nil && len(data) == 0 {
			err = fmt.Errorf("文件 %s 为空", res.Path)
		}
		if err != nil {
			errs[name] = err
			logging.L().Warn("加载注入资源失败", zap.String("name", name), zap.String("path", res.Path), zap.Error(err))
			continue
		}
		dst[name] = data
	}
}

// NewDrawer 以 baseImage 为底图创建一个绘制会话，font 用于之后的 DrawText。
func (r *Renderer) NewDrawer(baseImage, font string) (renderer.Drawer, error) {
	base, err := r.openImage(baseImage)
	if err != nil {
		return nil, err
	}
	return &drawer{
		r:    r,
		img:  imaging.Clone(base),
		font: layout.FontResource{Name: filepath.Base(font), Src: font},
	}, nil
}

// FitText 在底图的区域内以尽可能大的字号居中绘制文字，再叠加覆盖图。
func (r *Renderer) FitText(req renderer.FitRequest) ([]byte, error) {
	if req.Region.Empty() {
		return nil, fmt.Errorf("文字区域为空: %+v", req.Region)
	}
	base, err := r.openImage(req.BaseImage)
	if err != nil {
		return nil, err
	}
	img := imaging.Clone(base)

	font := layout.FontResource{Name: filepath.Base(req.Font), Src: req.Font}
	textImg, err := r.renderText(req.Text, req.Region, font, req.Style, canvas.Center)
	if err != nil {
		return nil, err
	}
	img = imaging.Overlay(img, textImg, image.Pt(req.Region.X0, req.Region.Y0), 1.0)

	if req.OverlayImage != "" {
		overlay, err := r.openImage(req.OverlayImage)
		if err != nil {
			return nil, err
		}
		if overlay.Bounds().Size() != img.Bounds().Size() {
			overlay = imaging.Resize(overlay, img.Bounds().Dx(), img.Bounds().Dy(), imaging.Lanczos)
		}
		img = imaging.Overlay(img, overlay, image.Pt(0, 0), 1.0)
	}
	return encodePNG(img)
}

type drawer struct {
	r        *Renderer
	img      *image.NRGBA
	font     layout.FontResource
	finished bool
}

func (d *drawer) PasteImage(src string, region layout.Rect, style layout.PasteStyle) error {
	if d.finished {
		return fmt.Errorf("绘制已结束，无法继续贴图")
	}
	if region.Empty() {
		return fmt.Errorf("贴图区域为空: %+v", region)
	}
	img, err := d.r.openImage(src)
	if err != nil {
		return err
	}
	fitted := imaging.Resize(img, region.Width(), region.Height(), imaging.Lanczos)
	pos := image.Pt(region.X0, region.Y0)
	if style.KeepAlpha {
		d.img = imaging.Paste(d.img, fitted, pos)
	} else {
		d.img = imaging.Overlay(d.img, fitted, pos, 1.0)
	}
	return nil
}

func (d *drawer) DrawText(text string, region layout.Rect, style layout.TextStyle) error {
	if d.finished {
		return fmt.Errorf("绘制已结束，无法继续写字")
	}
	if region.Empty() {
		return fmt.Errorf("文字区域为空: %+v", region)
	}
	textImg, err := d.r.renderText(text, region, d.font, style, canvas.Left)
	if err != nil {
		return err
	}
	d.img = imaging.Overlay(d.img, textImg, image.Pt(region.X0, region.Y0), 1.0)
	return nil
}

func (d *drawer) Finish() ([]byte, error) {
	if d.finished {
		return nil, fmt.Errorf("绘制已结束")
	}
	d.finished = true
	return encodePNG(d.img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// openImage 解析资源路径并解码图片，built-in 资源优先。
func (r *Renderer) openImage(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("图片路径为空")
	}
	if fonts.IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		blob, ok := r.imageBlobs[name]
		if !ok {
			if err := r.imageErrs[name]; err != nil {
				return nil, fmt.Errorf("读取内置图片资源 built-in:%s 失败: %w", name, err)
			}
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, err := imaging.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}
	path, err := r.resolvePath(src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	return img, nil
}

func (r *Renderer) resolvePath(src string) (string, error) {
	if filepath.IsAbs(src) {
		return src, nil
	}
	if r.baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许直接使用相对路径：%s", src)
	}
	return filepath.Join(r.baseDir, src), nil
}

// renderText 将文字排进 region 大小的透明画布并栅格化（1mm = 1px）。
func (r *Renderer) renderText(text string, region layout.Rect, font layout.FontResource, style layout.TextStyle, align canvas.TextAlign) (image.Image, error) {
	width, height := float64(region.Width()), float64(region.Height())
	size, lines, err := r.fitLines(text, width, height, font, style.MaxFontHeight)
	if err != nil {
		return nil, err
	}
	body, err := r.fontFace(font, size, style.Color)
	if err != nil {
		return nil, err
	}
	bracket, err := r.fontFace(font, size, style.SpanColor())
	if err != nil {
		return nil, err
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	cursorY := math.Max((height-layout.TextBlockHeight(lines))/2, 0)
	ascent := body.Metrics().Ascent
	depth := 0
	for _, line := range lines {
		cursorY += line.GapBefore
		x := 0.0
		if align == canvas.Center {
			x = math.Max((width-line.Width)/2, 0)
		}
		var spans []span
		spans, depth = splitBracketSpans(line.Content, depth)
		for _, sp := range spans {
			face := body
			if sp.bracket {
				face = bracket
			}
			ctx.DrawText(x, cursorY+ascent, canvas.NewTextLine(face, sp.text, canvas.Left))
			x += face.TextWidth(sp.text)
		}
		cursorY += line.Height
	}
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

// fitLines 二分查找能放进 width×height 的最大整数字号，最小不低于 minFontHeight。
func (r *Renderer) fitLines(text string, width, height float64, font layout.FontResource, maxFont float64) (float64, []layout.TextLine, error) {
	if maxFont <= 0 || maxFont > height {
		maxFont = height
	}
	lo, hi := int(math.Ceil(r.minFontHeight)), int(math.Floor(maxFont))
	if hi < lo {
		hi = lo
	}

	var (
		bestSize  = float64(lo)
		bestLines []layout.TextLine
	)
	for lo <= hi {
		mid := (lo + hi) / 2
		size := float64(mid)
		lines, err := r.LayoutLines(text, width, font, size, size*layout.DefaultLineStretch)
		if err != nil {
			return 0, nil, err
		}
		if layout.TextBlockHeight(lines) <= height && layout.TextBlockWidth(lines) <= width {
			bestSize, bestLines = size, lines
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if bestLines == nil {
		// 最小字号也放不下时照常绘制，超出部分由区域裁剪。
		lines, err := r.LayoutLines(text, width, font, bestSize, bestSize*layout.DefaultLineStretch)
		if err != nil {
			return 0, nil, err
		}
		bestLines = lines
	}
	return bestSize, bestLines, nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为像素（即 1:1 栅格化下的 mm）。字体系统使用 pt，在边界做换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize, layout.RGB(30, 30, 30))
	if err != nil {
		return nil, err
	}

	lines := greedyWrapTokens(content, width, face)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{
			Content: "",
			Width:   0,
			Height:  textHeight,
		}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// fontFace 创建指定像素字号与颜色的字体面。
func (r *Renderer) fontFace(font layout.FontResource, sizePx float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(sizePx), colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	key := font.Src
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}

	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)
	if err := r.loadFontIntoFamily(family, font); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.fontFamilies[key] = fallback
		return fallback, nil
	}
	r.fontFamilies[key] = family
	return family, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if fonts.IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		if err := r.fontErrs[name]; err != nil {
			return nil, fmt.Errorf("读取内置字体 built-in:%s 失败: %w", name, err)
		}
		return fonts.Load(name)
	}
	path, err := r.resolvePath(src)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// fallback 必须在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Fallback)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("manosaba-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// span 为一行中颜色相同的一段文字。
type span struct {
	text    string
	bracket bool
}

func isOpenBracket(r rune) bool  { return r == '【' || r == '[' }
func isCloseBracket(r rune) bool { return r == '】' || r == ']' }

// splitBracketSpans 按括号把一行拆成若干片段，括号本身归入括号片段。
// depth 为进入本行时尚未闭合的括号层数，返回值为离开本行时的层数，使跨行的括号片段保持颜色。
func splitBracketSpans(line string, depth int) ([]span, int) {
	var spans []span
	var builder strings.Builder
	current := depth > 0
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		spans = append(spans, span{text: builder.String(), bracket: current})
		builder.Reset()
	}
	for _, r := range line {
		switch {
		case isOpenBracket(r):
			if !current {
				flush()
				current = true
			}
			depth++
			builder.WriteRune(r)
		case isCloseBracket(r) && depth > 0:
			builder.WriteRune(r)
			depth--
			if depth == 0 {
				flush()
				current = false
			}
		default:
			builder.WriteRune(r)
		}
	}
	flush()
	return spans, depth
}

func greedyWrapTokens(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// 优先在空白处分割，单个词超过限制时在词内拆分
	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, layout.TextLine{
			Content: builder.String(),
			Width:   currentWidth,
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			// 行首的空白没有意义
			if builder.Len() == 0 && strings.TrimSpace(token) == "" {
				continue
			}
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

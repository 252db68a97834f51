package layout

import (
	"errors"
	"fmt"
	"math"
)

// 审判界面的选项布局常量（单位：像素）。
const (
	OptionStartX = 29
	OptionStartY = 364
	OptionEndY   = 780
	OptionWidth  = 802
	OptionHeight = 216

	// MaxPadding 为相邻选项锚点之间允许的最大间距。
	MaxPadding = 286

	// MaxOptions 为一张审判图支持的最多选项数。
	MaxOptions = 10
)

var (
	// ErrCountOutOfRange 为选项数量越界的总括错误，ErrNoOptions 与 ErrTooManyOptions 均包装它。
	ErrCountOutOfRange = errors.New("选项数量超出范围")
	ErrNoOptions       = fmt.Errorf("%w: 至少需要 1 个选项", ErrCountOutOfRange)
	ErrTooManyOptions  = fmt.Errorf("%w: 最多支持 %d 个选项", ErrCountOutOfRange, MaxOptions)
)

// AvailableHeight 返回中心锚点向上或向下可以偏移的最大距离。
// 锚点始终落在 [OptionStartY-AvailableHeight, OptionStartY+AvailableHeight] 之内，
// 因此最下方选项框的底边不会超过 OptionEndY。
func AvailableHeight() int {
	return OptionEndY - OptionStartY - OptionHeight
}

// OptionPositions 计算 count 个选项框左上角的锚点，按从上到下的顺序返回。
//
// 布局以 OptionStartY 为中心对称展开：
//   - 奇数个选项时，中间的选项正好位于 OptionStartY；
//   - 偶数个选项时，中间两个选项以半个间距跨在 OptionStartY 两侧。
//
// 间距取 MaxPadding 与上下两半各自允许的最大间距三者中的最小值，
// 上下两半共用同一个间距以保证对称。选项较多时间距会小于 OptionHeight，
// 此时相邻选项框允许重叠。
func OptionPositions(count int) ([]Point, error) {
	switch {
	case count < 1:
		return nil, ErrNoOptions
	case count > MaxOptions:
		return nil, fmt.Errorf("%w（当前 %d 个）", ErrTooManyOptions, count)
	}

	available := float64(AvailableHeight())
	half := count / 2
	points := make([]Point, 0, count)

	if count%2 == 1 {
		padding := symmetricPadding(available, float64(half), float64(half))
		for i := -half; i <= half; i++ {
			points = append(points, Point{X: OptionStartX, Y: OptionStartY + padding*i})
		}
		return points, nil
	}

	// 偶数：上半部分最外侧距中心 (half-0.5) 个间距；下半部分额外保留半个间距作为余量。
	padding := symmetricPadding(available, float64(half)-0.5, float64(half)+0.5)
	for i := -half; i < half; i++ {
		y := float64(OptionStartY) + float64(padding)*(float64(i)+0.5)
		points = append(points, Point{X: OptionStartX, Y: int(y)})
	}
	return points, nil
}

// symmetricPadding 根据上下两半最外侧选项距中心的间距倍数计算统一间距。
// 倍数为 0 表示该半边没有选项，不参与约束。
func symmetricPadding(available, upperSteps, lowerSteps float64) int {
	padding := float64(MaxPadding)
	if upperSteps > 0 {
		padding = math.Min(padding, math.Trunc(available/upperSteps))
	}
	if lowerSteps > 0 {
		padding = math.Min(padding, math.Trunc(available/lowerSteps))
	}
	return int(padding)
}

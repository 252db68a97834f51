package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ListSeparator 为字符串列表插值时使用的分隔符。
const ListSeparator = ", "

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值，支持 ${list[0]} 形式的下标。
// 字符串列表按 ListSeparator 拼接；若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data map[string]any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return format(val)
		}
		return match
	})
}

// Placeholders 返回模板中出现的全部占位符路径，按出现顺序去重。
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		path := strings.TrimSpace(groups[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

func format(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ListSeparator)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = format(item)
		}
		return strings.Join(parts, ListSeparator)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// step 是路径中的一级：键名或下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// compilePath 把 a.b[0][1] 拆成逐级访问的步骤，格式不合法时返回 false。
func compilePath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		} else if rest == "" {
			return nil, false
		}
		if rest == "" {
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			num, ok := strings.CutSuffix(part, "]")
			if !ok {
				return nil, false
			}
			idx, err := strconv.Atoi(num)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
		}
	}
	return steps, len(steps) > 0
}

func resolvePath(data any, path string) (any, bool) {
	steps, ok := compilePath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, st := range steps {
		if st.isIdx {
			current, ok = descendArray(current, st.index)
		} else {
			current, ok = descendMap(current, st.key)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	}
	return nil, false
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx >= 0 && idx < len(c) {
			return c[idx], true
		}
	case []string:
		if idx >= 0 && idx < len(c) {
			return c[idx], true
		}
	}
	return nil, false
}

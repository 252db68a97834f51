package binding

import (
	"reflect"
	"testing"
)

type named string

func (n named) String() string { return "<" + string(n) + ">" }

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"faces":   []string{"害羞", "生气"},
		"count":   3,
		"who":     named("艾玛"),
		"session": map[string]any{"character": "希罗"},
		"mixed":   []any{"a", 1},
	}
	cases := []struct {
		tmpl string
		want string
	}{
		{"表情可选: ${faces}", "表情可选: 害羞, 生气"},
		{"第一个: ${faces[0]}", "第一个: 害羞"},
		{"共 ${ count } 条", "共 3 条"},
		{"角色 ${who}", "角色 <艾玛>"},
		{"当前 ${session.character}", "当前 希罗"},
		{"${mixed}", "a, 1"},
		{"缺失 ${nope}", "缺失 ${nope}"},
		{"越界 ${faces[9]}", "越界 ${faces[9]}"},
		{"空 ${ }", "空 ${ }"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.tmpl, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("expected template untouched, got %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a} ${b.c} ${a} ${ d[0] }")
	want := []string{"a", "b.c", "d[0]"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Placeholders = %v, want %v", got, want)
	}
}

func TestInterpolateNestedIndexes(t *testing.T) {
	data := map[string]any{
		"grid":  []any{[]string{"a", "b"}, []string{"c"}},
		"names": map[string]string{"ema": "艾玛"},
	}
	cases := map[string]string{
		"${grid[0][1]}": "b",
		"${grid[1][0]}": "c",
		"${names.ema}":  "艾玛",
		"${grid[x]}":    "${grid[x]}",
		"${grid[0}":     "${grid[0}",
		"${names..ema}": "${names..ema}",
	}
	for tmpl, want := range cases {
		if got := Interpolate(tmpl, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tmpl, got, want)
		}
	}
}

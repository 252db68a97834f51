package dsl_test

import (
	"errors"
	"testing"

	"github.com/ByLCY/manosaba/dsl"
)

const sampleMessage = `【伪证】我和艾玛不是恋人
这一行不是选项
【魔法:诺亚】液体操控
【疑问：汉娜】真的吗？
【反驳】【证据】在这里`

func TestParseTrial(t *testing.T) {
	lines, err := dsl.ParseTrial(sampleMessage)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 option lines, got %d", len(lines))
	}

	first := lines[0]
	if first.Kind != "伪证" || first.HasArg || first.Text != "我和艾玛不是恋人" || first.Line != 1 {
		t.Fatalf("unexpected first line: %+v", first)
	}

	magic := lines[1]
	if magic.Kind != "魔法" || !magic.HasArg || magic.Arg != "诺亚" || magic.Text != "液体操控" {
		t.Fatalf("unexpected magic line: %+v", magic)
	}
	if magic.Line != 3 {
		t.Fatalf("expected magic line number 3, got %d", magic.Line)
	}

	fullWidth := lines[2]
	if fullWidth.Arg != "汉娜" || fullWidth.Text != "真的吗？" {
		t.Fatalf("full-width colon not handled: %+v", fullWidth)
	}

	// 正文中的【】原样保留，交给渲染器着色
	if got := lines[3].Text; got != "【证据】在这里" {
		t.Fatalf("unexpected body text %q", got)
	}
}

func TestParseTrialNoOptions(t *testing.T) {
	for _, msg := range []string{"", "你好", " 【赞同】前面有空格", "【】正文", "【赞同"} {
		if _, err := dsl.ParseTrial(msg); !errors.Is(err, dsl.ErrNoOptionLines) {
			t.Fatalf("ParseTrial(%q) expected ErrNoOptionLines, got %v", msg, err)
		}
	}
}

func TestParseLineEmptyArgument(t *testing.T) {
	line, err := dsl.ParseLine("【魔法:】液体操控")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if line.Kind != "魔法" || line.Arg != "" || line.Text != "液体操控" {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestParseLineHandlesCRLF(t *testing.T) {
	lines, err := dsl.ParseTrial("【赞同】是的\r\n【疑问】为什么\r\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 2 || lines[0].Text != "是的" || lines[1].Text != "为什么" {
		t.Fatalf("unexpected lines: %+v %+v", lines[0], lines[1])
	}
}

func TestParseLineRejectsMissingClose(t *testing.T) {
	if _, err := dsl.ParseLine("【赞同 没有闭合"); err == nil {
		t.Fatalf("expected error for unterminated head")
	}
}

func TestOptionLineString(t *testing.T) {
	line := &dsl.OptionLine{Kind: "魔法", Arg: "诺亚", HasArg: true, Text: "液体操控"}
	if got := line.String(); got != "【魔法:诺亚】液体操控" {
		t.Fatalf("unexpected String(): %q", got)
	}
}

func TestParseTrialKeepsEmptyBodies(t *testing.T) {
	lines, err := dsl.ParseTrial("【赞同】ok\n【疑问】\n【反驳】   ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 option lines, got %d", len(lines))
	}
	if lines[1].Kind != "疑问" || lines[1].Text != "" || lines[1].Line != 2 {
		t.Fatalf("unexpected empty line: %+v", lines[1])
	}
	if lines[2].Text != "   " || lines[2].Line != 3 {
		t.Fatalf("blank body should be kept verbatim: %+v", lines[2])
	}
}

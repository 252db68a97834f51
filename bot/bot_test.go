package bot

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/model"
	"github.com/ByLCY/manosaba/session"
	"github.com/ByLCY/manosaba/worker"
)

type signCall struct{ text, face string }

type trialCall struct {
	character model.Character
	options   []model.Option
}

type stubMemes struct {
	signs  []signCall
	trials []trialCall
	err    error
	delay  time.Duration
}

func (s *stubMemes) RenderTrial(c model.Character, options []model.Option) ([]byte, error) {
	time.Sleep(s.delay)
	s.trials = append(s.trials, trialCall{character: c, options: options})
	if s.err != nil {
		return nil, s.err
	}
	return []byte("trial"), nil
}

func (s *stubMemes) RenderSign(text, face string) ([]byte, error) {
	s.signs = append(s.signs, signCall{text: text, face: face})
	if s.err != nil {
		return nil, s.err
	}
	return []byte("sign"), nil
}

func newBot(memes *stubMemes) (*Bot, *session.Store) {
	store := session.NewStore("")
	return New(memes, store, worker.NewPool(2, time.Second)), store
}

func handle(t *testing.T, b *Bot, message string) []Reply {
	t.Helper()
	replies, ok := b.Handle(context.Background(), "group-1", message)
	if !ok {
		t.Fatalf("message %q not handled", message)
	}
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	return replies
}

func TestSignCommand(t *testing.T) {
	memes := &stubMemes{}
	b, _ := newBot(memes)

	replies := handle(t, b, "安安说 吾辈命令你现在【猛击自己的魔丸一百下】 生气")
	if replies[0].Kind != ReplyImage || string(replies[0].Image) != "sign" {
		t.Fatalf("unexpected reply: %+v", replies[0])
	}
	want := signCall{text: "吾辈命令你现在【猛击自己的魔丸一百下】", face: "生气"}
	if len(memes.signs) != 1 || memes.signs[0] != want {
		t.Fatalf("sign calls = %+v, want %+v", memes.signs, want)
	}
}

func TestSignCommandAliasesAndEscapes(t *testing.T) {
	memes := &stubMemes{}
	b, _ := newBot(memes)
	handle(t, b, `/anansays 第一行\n第二行`)
	if got := memes.signs[0]; got.text != "第一行\n第二行" || got.face != "" {
		t.Fatalf("unexpected call: %+v", got)
	}
	handle(t, b, "ANAN说 hi")
	if len(memes.signs) != 2 {
		t.Fatalf("alias should match case-insensitively")
	}
}

func TestSignCommandUsageAndInvalidFace(t *testing.T) {
	memes := &stubMemes{}
	b, _ := newBot(memes)

	if got := handle(t, b, "安安说")[0].Text; got != msgSignUsage {
		t.Fatalf("unexpected usage reply %q", got)
	}
	got := handle(t, b, "安安说 hi ../../etc/passwd")[0].Text
	if !strings.Contains(got, "无效的表情") || !strings.Contains(got, "害羞") {
		t.Fatalf("unexpected invalid face reply %q", got)
	}
	if len(memes.signs) != 0 {
		t.Fatalf("renderer must not be called")
	}
}

func TestTrialUsesSessionCharacter(t *testing.T) {
	memes := &stubMemes{}
	b, store := newBot(memes)
	if err := store.Set("group-1", model.CharacterHiro); err != nil {
		t.Fatalf("Set: %v", err)
	}

	replies := handle(t, b, "【伪证】我和艾玛不是恋人\n闲聊\n【魔法：诺亚】液体操控")
	if replies[0].Kind != ReplyImage {
		t.Fatalf("unexpected reply: %+v", replies[0])
	}
	call := memes.trials[0]
	if call.character != model.CharacterHiro {
		t.Fatalf("character = %v, want Hiro", call.character)
	}
	got := []model.Statement{call.options[0].Statement(), call.options[1].Statement()}
	want := []model.Statement{model.StatementPerjury, model.StatementMagicEkitaiSousa}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %v, want %v", got, want)
	}
	if call.options[1].Text() != "液体操控" {
		t.Fatalf("unexpected text %q", call.options[1].Text())
	}
}

func TestTrialValidationReplies(t *testing.T) {
	cases := map[string]string{
		"【魔法】缺少角色":   "缺少参数",
		"【魔法:不存在】文本": "无效的角色",
		"【赞同】   ":    "",
		"【赞同】" + strings.Repeat("长", model.MaxOptionTextLength+1): "文本过长",
	}
	for msg, want := range cases {
		memes := &stubMemes{}
		b, _ := newBot(memes)
		replies, ok := b.Handle(context.Background(), "s", msg)
		if want == "" {
			// 正文只有空白：语法上仍是选项行，校验时报空文本
			if !ok || !strings.Contains(replies[0].Text, "文本不能为空") {
				t.Fatalf("%q: unexpected replies %+v", msg, replies)
			}
			continue
		}
		if !ok || !strings.Contains(replies[0].Text, want) {
			t.Fatalf("%q: expected reply containing %q, got %+v", msg, want, replies)
		}
		if len(memes.trials) != 0 {
			t.Fatalf("%q: renderer must not be called", msg)
		}
	}
}

func TestBlankOptionReportedInAnyPosition(t *testing.T) {
	cases := map[string]string{
		"【赞同】ok\n【疑问】   ": "第 2 行",
		"【疑问】   \n【赞同】ok": "第 1 行",
		"【赞同】ok\n【疑问】":    "第 2 行",
		"/【疑问】   \n":      "第 1 行",
	}
	for msg, line := range cases {
		memes := &stubMemes{}
		b, _ := newBot(memes)
		replies := handle(t, b, msg)
		if !strings.Contains(replies[0].Text, line) || !strings.Contains(replies[0].Text, "文本不能为空") {
			t.Fatalf("%q: expected empty text error on %s, got %+v", msg, line, replies)
		}
		if len(memes.trials) != 0 {
			t.Fatalf("%q: renderer must not be called", msg)
		}
	}
}

func TestTrialTooManyOptions(t *testing.T) {
	memes := &stubMemes{}
	b, _ := newBot(memes)
	var lines []string
	for i := 0; i <= layout.MaxOptions; i++ {
		lines = append(lines, fmt.Sprintf("【疑问】选项%d", i))
	}
	if got := handle(t, b, strings.Join(lines, "\n"))[0].Text; got != msgTooMany {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestUnknownKindNotHandled(t *testing.T) {
	b, _ := newBot(&stubMemes{})
	for _, msg := range []string{"【注意】今天开会", "hello", "", "   "} {
		if _, ok := b.Handle(context.Background(), "s", msg); ok {
			t.Fatalf("%q should not be handled", msg)
		}
	}
}

func TestSwitchCharacter(t *testing.T) {
	b, store := newBot(&stubMemes{})
	if got := handle(t, b, "切换角色 希罗")[0].Text; got != "已切换角色为 希罗" {
		t.Fatalf("unexpected reply %q", got)
	}
	if store.Get("group-1") != model.CharacterHiro {
		t.Fatalf("preference not stored")
	}
	if got := handle(t, b, "切换角色")[0].Text; got != msgSwitchUsage {
		t.Fatalf("unexpected usage reply %q", got)
	}
	got := handle(t, b, "切换角色 诺亚")[0].Text
	if !strings.Contains(got, "艾玛") || !strings.Contains(got, "希罗") {
		t.Fatalf("reply should name legal characters: %q", got)
	}
	if store.Get("group-1") != model.CharacterHiro {
		t.Fatalf("invalid switch must not change preference")
	}
}

func TestHelp(t *testing.T) {
	b, _ := newBot(&stubMemes{})
	text := handle(t, b, "魔裁帮助")[0].Text
	for _, want := range []string{"害羞, 生气, 病娇, 无语, 开心", "梅露露, 诺亚", "艾玛, 希罗", "anan说, anansays", "最多 10 个"} {
		if !strings.Contains(text, want) {
			t.Fatalf("help text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "${") {
		t.Fatalf("help text has unresolved placeholders:\n%s", text)
	}
}

func TestHelpTemplateFullyBound(t *testing.T) {
	if missing := unbound(helpTemplate, helpData()); len(missing) != 0 {
		t.Fatalf("help template has unbound placeholders: %v", missing)
	}
	got := unbound("${faces} ${kinds[99]} ${nope}", helpData())
	if !reflect.DeepEqual(got, []string{"kinds[99]", "nope"}) {
		t.Fatalf("unexpected unbound placeholders: %v", got)
	}
}

func TestRenderFailureHidesDetails(t *testing.T) {
	memes := &stubMemes{err: errors.New("open /secret/assets/trial/option.png: no such file")}
	b, _ := newBot(memes)
	got := handle(t, b, "【赞同】好")[0].Text
	if got != msgRenderFailed {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestRenderTimeout(t *testing.T) {
	memes := &stubMemes{delay: 200 * time.Millisecond}
	b := New(memes, session.NewStore(""), worker.NewPool(1, 20*time.Millisecond))
	replies, ok := b.Handle(context.Background(), "s", "【赞同】好")
	if !ok || replies[0].Text != msgRenderSlow {
		t.Fatalf("unexpected replies %+v", replies)
	}
}

func TestSplitFields(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a b c d", []string{"a", "b", "c d"}},
		{"  a\u3000b  ", []string{"a", "b"}},
		{"a", []string{"a"}},
		{"", nil},
	}
	for _, tc := range cases {
		if got := splitFields(tc.in, 3); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitFields(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

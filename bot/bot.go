package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/dsl"
	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/model"
	"github.com/ByLCY/manosaba/worker"
)

// 指令名。第一个为主名称，其余为别名。
var (
	signAliases   = []string{"安安说", "anan说", "anansays"}
	switchAliases = []string{"切换角色"}
	helpAliases   = []string{"魔裁帮助", "manosaba帮助", "魔裁help"}
)

// 回复给用户的固定文案。
const (
	msgSignUsage    = "请输入文本。用法: 安安说 [文本] [表情]"
	msgSwitchUsage  = "请输入角色名。用法: 切换角色 [角色名]"
	msgTooMany      = "选项过多，请减少选项数量"
	msgRenderFailed = "生成图片失败，请稍后再试"
	msgRenderSlow   = "生成图片超时，请稍后再试"
)

// ReplyKind 区分文字与图片回复。
type ReplyKind string

const (
	ReplyText  ReplyKind = "text"
	ReplyImage ReplyKind = "image"
)

// Reply 为机器人对一条消息的一个回复。
type Reply struct {
	Kind  ReplyKind
	Text  string
	Image []byte // PNG
}

func textReply(text string) Reply { return Reply{Kind: ReplyText, Text: text} }

// Memes 生成表情包图片，由 *meme.Service 实现。
type Memes interface {
	RenderTrial(c model.Character, options []model.Option) ([]byte, error)
	RenderSign(text, face string) ([]byte, error)
}

// Preferences 保存会话的角色选择，由 *session.Store 实现。
type Preferences interface {
	Get(sessionID string) model.Character
	Set(sessionID string, c model.Character) error
}

// Bot 把聊天消息分派到对应的指令。
type Bot struct {
	memes Memes
	prefs Preferences
	pool  *worker.Pool
	help  string
}

// New 创建机器人，渲染任务都在 pool 中执行。
func New(memes Memes, prefs Preferences, pool *worker.Pool) *Bot {
	return &Bot{memes: memes, prefs: prefs, pool: pool, help: HelpText()}
}

// Handle 处理一条消息。第二个返回值为 false 表示消息不是本机器人的指令。
func (b *Bot) Handle(ctx context.Context, sessionID, message string) ([]Reply, bool) {
	ctx = logging.WithSession(ctx, sessionID)
	// 只去掉开头的空白与唤醒前缀，行尾空白属于最后一个选项的正文。
	message = strings.TrimPrefix(strings.TrimLeftFunc(message, unicode.IsSpace), "/")

	fields := splitFields(message, 3)
	if len(fields) > 0 {
		switch {
		case matches(fields[0], signAliases):
			return b.handleSign(ctx, fields), true
		case matches(fields[0], switchAliases):
			return b.handleSwitch(ctx, sessionID, fields), true
		case matches(fields[0], helpAliases):
			return []Reply{textReply(b.help)}, true
		}
	}

	lines, err := dsl.ParseTrial(message)
	if err != nil {
		return nil, false
	}
	known := lines[:0]
	for _, line := range lines {
		if model.IsKindLabel(line.Kind) {
			known = append(known, line)
		}
	}
	if len(known) == 0 {
		return nil, false
	}
	return b.handleTrial(ctx, sessionID, known), true
}

func (b *Bot) handleSign(ctx context.Context, fields []string) []Reply {
	if len(fields) < 2 {
		return []Reply{textReply(msgSignUsage)}
	}
	text := strings.ReplaceAll(fields[1], `\n`, "\n")
	face := ""
	if len(fields) > 2 {
		face = fields[2]
	}
	if face != "" {
		if err := model.CheckFace(face); err != nil {
			return []Reply{textReply(err.Error())}
		}
	}

	img, err := b.pool.Do(ctx, "sign", func() ([]byte, error) {
		return b.memes.RenderSign(text, face)
	})
	if err != nil {
		return []Reply{b.failure(ctx, "生成安安举牌图失败", err)}
	}
	return []Reply{{Kind: ReplyImage, Image: img}}
}

func (b *Bot) handleSwitch(ctx context.Context, sessionID string, fields []string) []Reply {
	if len(fields) < 2 {
		return []Reply{textReply(msgSwitchUsage)}
	}
	c, err := model.ResolveCharacter(fields[1])
	if err != nil {
		return []Reply{textReply(err.Error())}
	}
	if err := b.prefs.Set(sessionID, c); err != nil {
		return []Reply{b.failure(ctx, "切换角色失败", err)}
	}
	logging.WithCtx(ctx).Info("切换角色", zap.String("character", c.DisplayName()))
	return []Reply{textReply(fmt.Sprintf("已切换角色为 %s", c.DisplayName()))}
}

func (b *Bot) handleTrial(ctx context.Context, sessionID string, lines []*dsl.OptionLine) []Reply {
	if len(lines) > layout.MaxOptions {
		return []Reply{textReply(msgTooMany)}
	}
	options := make([]model.Option, 0, len(lines))
	for _, line := range lines {
		st, err := model.ResolveStatement(line.Kind, line.Arg)
		if err != nil {
			return []Reply{textReply(err.Error())}
		}
		opt, err := model.NewOption(st, line.Text)
		if err != nil {
			if model.IsValidation(err) {
				return []Reply{textReply(fmt.Sprintf("第 %d 行：%v", line.Line, err))}
			}
			return []Reply{b.failure(ctx, "构造选项失败", err)}
		}
		options = append(options, opt)
	}

	c := b.prefs.Get(sessionID)
	img, err := b.pool.Do(ctx, "trial", func() ([]byte, error) {
		return b.memes.RenderTrial(c, options)
	})
	if err != nil {
		return []Reply{b.failure(ctx, "生成审判图失败", err)}
	}
	return []Reply{{Kind: ReplyImage, Image: img}}
}

// failure 把错误转换为用户可见的回复：校验错误原样返回，其余错误只记录日志。
func (b *Bot) failure(ctx context.Context, what string, err error) Reply {
	return textReply(UserMessage(ctx, what, err))
}

// UserMessage 返回可以展示给用户的错误描述，不会泄露文件路径等内部信息。
func UserMessage(ctx context.Context, what string, err error) string {
	switch {
	case model.IsValidation(err):
		return err.Error()
	case errors.Is(err, layout.ErrTooManyOptions):
		return msgTooMany
	case errors.Is(err, layout.ErrCountOutOfRange):
		return err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		logging.WithCtx(ctx).Warn(what, zap.Error(err))
		return msgRenderSlow
	default:
		logging.WithCtx(ctx).Error(what, zap.Error(err))
		return msgRenderFailed
	}
}

func matches(word string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.EqualFold(word, alias) {
			return true
		}
	}
	return false
}

// splitFields 按空白切分，最多 n 段，最后一段保留剩余内容（去除首尾空白）。
func splitFields(s string, n int) []string {
	var out []string
	rest := strings.TrimSpace(s)
	for rest != "" && len(out) < n-1 {
		idx := strings.IndexFunc(rest, unicode.IsSpace)
		if idx < 0 {
			break
		}
		out = append(out, rest[:idx])
		rest = strings.TrimLeftFunc(rest[idx:], unicode.IsSpace)
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

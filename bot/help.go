package bot

import (
	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/binding"
	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/model"
)

const helpTemplate = `🌸 魔裁 Memes 使用说明 🌸

📖 指令列表：

1️⃣ 安安说
用法: 安安说 [文本] [表情]
说明: 让安安举着写了你想说的话的素描本
表情可选: ${faces}
别名: ${signAliases}
示例: 安安说 吾辈现在不想说话
示例: 安安说 吾辈命令你现在【猛击自己的魔丸一百下】 生气

2️⃣ 审判表情包
用法: 【${kinds[0]}/${kinds[1]}/${kinds[2]}/${kinds[3]}/${kinds[4]}:[角色名]】[文本]
说明: 生成审判时的选项图片，支持多行输入生成多个选项（最多 ${maxOptions} 个）
魔法角色: ${magicOwners}
示例: 【伪证】我和艾玛不是恋人
示例: 【魔法:诺亚】液体操控

3️⃣ 切换角色
用法: 切换角色 [角色名]
说明: 切换审判表情包中的角色
角色可选: ${characters}
示例: 切换角色 希罗

💡 小贴士:
• 在文本中输入 \n 可以换行
• 【】或 [] 中的内容会被渲染成紫色
• 选项数量建议 3 条以内效果最佳`

func helpData() map[string]any {
	return map[string]any{
		"faces":       model.FaceNames(),
		"signAliases": signAliases[1:],
		"kinds":       model.KindLabels(),
		"magicOwners": model.MagicOwners(),
		"characters":  model.CharacterNames(),
		"maxOptions":  layout.MaxOptions,
	}
}

// unbound 返回模板中在 data 里找不到值的占位符。
func unbound(tmpl string, data map[string]any) []string {
	var missing []string
	for _, path := range binding.Placeholders(tmpl) {
		expr := "${" + path + "}"
		if binding.Interpolate(expr, data) == expr {
			missing = append(missing, path)
		}
	}
	return missing
}

// HelpText 生成帮助信息，其中的可选值均来自 model 中的枚举表。
func HelpText() string {
	data := helpData()
	if missing := unbound(helpTemplate, data); len(missing) > 0 {
		logging.L().Warn("帮助模板存在未绑定的占位符", zap.Strings("placeholders", missing))
	}
	return binding.Interpolate(helpTemplate, data)
}

package model

// 陈述类型标签（【】中冒号前的部分）。
const (
	KindAgreement  = "赞同"
	KindDoubt      = "疑问"
	KindPerjury    = "伪证"
	KindRefutation = "反驳"
	KindMagic      = "魔法"
)

var kindLabels = []string{KindDoubt, KindRefutation, KindPerjury, KindAgreement, KindMagic}

var plainKinds = map[string]Statement{
	KindAgreement:  StatementAgreement,
	KindDoubt:      StatementDoubt,
	KindPerjury:    StatementPerjury,
	KindRefutation: StatementRefutation,
}

// magicOwners 按展示顺序列出魔法的持有者，下标与 magicStatements 对应。
var magicOwners = [...]string{
	"梅露露", "诺亚", "汉娜", "奈叶香", "亚里沙", "米莉亚", "雪莉",
	"艾玛", "玛格", "安安", "可可", "希罗", "蕾雅",
}

var magicStatements = [len(magicOwners)]Statement{
	StatementMagicChiyuSaisei,
	StatementMagicEkitaiSousa,
	StatementMagicFuyuu,
	StatementMagicGenshi,
	StatementMagicHakka,
	StatementMagicIrekawari,
	StatementMagicKairiki,
	StatementMagicMajoGoroshi,
	StatementMagicMonomane,
	StatementMagicSennou,
	StatementMagicSenrigan,
	StatementMagicShiniModori,
	StatementMagicShisenYuudou,
}

// 魔法持有者与魔法陈述一一对应，数量等于全部陈述减去四种普通陈述。
var _ [statementCount - 4]string = magicOwners

var (
	magicByOwner    = make(map[string]Statement, len(magicOwners))
	characterByName = make(map[string]Character, characterCount)
)

func init() {
	for i, owner := range magicOwners {
		magicByOwner[owner] = magicStatements[i]
	}
	for c := Character(0); c < characterCount; c++ {
		characterByName[characterNames[c]] = c
	}
}

// KindLabels 返回全部陈述类型标签。
func KindLabels() []string { return append([]string(nil), kindLabels...) }

// IsKindLabel 报告 s 标准化后是否为已知的陈述类型标签。
func IsKindLabel(s string) bool {
	normalized := Normalize(s)
	if normalized == KindMagic {
		return true
	}
	_, ok := plainKinds[normalized]
	return ok
}

// MagicOwners 返回全部魔法持有者的名字。
func MagicOwners() []string { return append([]string(nil), magicOwners[:]...) }

// ResolveStatement 将陈述类型标签（及魔法类型的角色名参数）解析为 Statement。
// 普通类型忽略 arg；魔法类型要求 arg 非空并且是已知的魔法持有者。
func ResolveStatement(kind, arg string) (Statement, error) {
	normalized := Normalize(kind)
	if normalized == KindMagic {
		return ResolveMagic(arg)
	}
	if st, ok := plainKinds[normalized]; ok {
		return st, nil
	}
	return 0, &Error{Code: ErrInvalidKind, Input: kind, Legal: KindLabels()}
}

// ResolveMagic 将魔法持有者的名字解析为对应的魔法陈述。
func ResolveMagic(owner string) (Statement, error) {
	normalized := Normalize(owner)
	if normalized == "" {
		return 0, &Error{
			Code:  ErrMissingArgument,
			Hint:  "魔法类型需要指定角色名，格式：【魔法:角色名】",
			Legal: MagicOwners(),
		}
	}
	if st, ok := magicByOwner[normalized]; ok {
		return st, nil
	}
	return 0, &Error{Code: ErrInvalidCharacter, Input: owner, Legal: MagicOwners()}
}

// ResolveCharacter 将角色名解析为 Character。
func ResolveCharacter(name string) (Character, error) {
	normalized := Normalize(name)
	if c, ok := characterByName[normalized]; ok {
		return c, nil
	}
	return 0, &Error{Code: ErrInvalidCharacter, Input: name, Legal: CharacterNames()}
}

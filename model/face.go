package model

// faces 为安安举牌图允许使用的表情，顺序即帮助信息中的展示顺序。
var faces = [...]string{"害羞", "生气", "病娇", "无语", "开心"}

var faceSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(faces))
	for _, f := range faces {
		m[f] = struct{}{}
	}
	return m
}()

// FaceNames 返回全部允许的表情名。
func FaceNames() []string { return append([]string(nil), faces[:]...) }

// CheckFace 要求 face 与白名单中的某一项完全一致，不做任何标准化。
// 该检查是防止路径穿越的安全边界，调用方拼接路径前必须先通过它。
func CheckFace(face string) error {
	if _, ok := faceSet[face]; !ok {
		return &Error{Code: ErrInvalidFace, Input: face, Legal: FaceNames()}
	}
	return nil
}

package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/model"
)

// Store 保存每个会话选择的角色。文件内容是会话 ID 到角色中文名的扁平映射，
// 每次保存整体重写；扩展名为 .yaml/.yml 时使用 YAML，否则使用 JSON。
type Store struct {
	mu    sync.RWMutex
	prefs map[string]model.Character

	saveMu sync.Mutex
	path   string
}

// NewStore 创建一个空的偏好存储。path 为空时只保存在内存中。
func NewStore(path string) *Store {
	return &Store{prefs: make(map[string]model.Character), path: path}
}

// Open 创建存储并从 path 加载已有偏好。文件损坏时返回错误，但存储仍然可用（为空）。
func Open(path string) (*Store, error) {
	s := NewStore(path)
	return s, s.Load()
}

// Path 返回偏好文件路径。
func (s *Store) Path() string { return s.path }

func (s *Store) isYAML() bool {
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load 从文件读取偏好并替换内存中的内容。文件不存在视为空；
// 无法识别的条目逐条跳过并记录警告。
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取偏好文件失败: %w", err)
	}

	raw := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if s.isYAML() {
			err = yaml.Unmarshal(data, &raw)
		} else {
			err = json.Unmarshal(data, &raw)
		}
		if err != nil {
			return fmt.Errorf("解析偏好文件 %s 失败: %w", s.path, err)
		}
	}

	log := logging.With(zap.String("path", s.path))
	prefs := make(map[string]model.Character, len(raw))
	for id, value := range raw {
		name, ok := value.(string)
		if !ok {
			log.Warn("跳过无效的角色偏好", zap.String("session", id), zap.Any("value", value))
			continue
		}
		c, err := model.ResolveCharacter(name)
		if err != nil {
			log.Warn("跳过无效的角色偏好", zap.String("session", id), zap.Error(err))
			continue
		}
		prefs[id] = c
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
	log.Info("已加载角色偏好", zap.Int("sessions", len(prefs)))
	return nil
}

// Save 把当前偏好整体写入文件，先写临时文件再重命名。
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	// 快照必须在 saveMu 内获取，否则较旧的快照可能晚于较新的快照落盘。
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	snapshot := s.Snapshot()

	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(snapshot)
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(snapshot)
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("编码偏好失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("创建偏好目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入偏好文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入偏好文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("替换偏好文件失败: %w", err)
	}
	return nil
}

// Get 返回会话的角色，未设置过时返回 model.DefaultCharacter。
func (s *Store) Get(sessionID string) model.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.prefs[sessionID]; ok {
		return c
	}
	return model.DefaultCharacter
}

// Set 更新会话的角色并尽力持久化，保存失败只记录日志。
func (s *Store) Set(sessionID string, c model.Character) error {
	if !c.Valid() {
		return &model.Error{Code: model.ErrInvalidCharacter, Input: c.String(), Legal: model.CharacterNames()}
	}
	s.mu.Lock()
	s.prefs[sessionID] = c
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		logging.With(zap.String("session", sessionID)).Error("保存角色偏好失败", zap.Error(err))
	}
	return nil
}

// Snapshot 返回会话 ID 到角色中文名的副本。
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.prefs))
	for id, c := range s.prefs {
		out[id] = c.DisplayName()
	}
	return out
}

// Sessions 返回已设置过角色的会话 ID，按字典序排列。
func (s *Store) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.prefs))
	for id := range s.prefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close 在退出前保存一次。
func (s *Store) Close() error {
	return s.Save()
}

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MarkusH/CloudRAID-Client/internal/models"
)

// FileName 会话文件名
const FileName = "session"

// Store 会话持久化存储。
// 将凭据和会话令牌按固定顺序（host、user、password、port、token）
// 以五行明文写入单个文件，文件权限是唯一的保护手段
type Store struct {
	dir string
}

// NewStore 创建Store，dir为会话文件所在目录
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir 返回按用户的默认会话文件目录
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, "cloudraid-client"), nil
}

// Path 返回会话文件的完整路径
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Save 将凭据和会话令牌写入会话文件
func (s *Store) Save(creds models.Credentials, token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	lines := []string{
		creds.Host,
		creds.User,
		creds.Password,
		strconv.Itoa(creds.Port),
		token,
	}
	content := strings.Join(lines, "\n") + "\n"

	if err := os.WriteFile(s.Path(), []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load 读取会话文件，按写入时的固定顺序返回凭据和会话令牌
func (s *Store) Load() (models.Credentials, string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return models.Credentials{}, "", fmt.Errorf("failed to read session file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) < 5 {
		return models.Credentials{}, "", fmt.Errorf("session file is malformed: expected 5 lines, got %d", len(lines))
	}

	port, err := strconv.Atoi(lines[3])
	if err != nil {
		return models.Credentials{}, "", fmt.Errorf("invalid port in session file: %w", err)
	}

	creds := models.Credentials{
		Host:     lines[0],
		User:     lines[1],
		Password: lines[2],
		Port:     port,
	}
	return creds, lines[4], nil
}

// Remove 删除会话文件。文件不存在时不视为错误
func (s *Store) Remove() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Exists 返回会话文件是否存在
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MarkusH/CloudRAID-Client/internal/models"
)

var testCreds = models.Credentials{
	Host:     "raid.example.com",
	User:     "alice",
	Password: "secret",
	Port:     8080,
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save(testCreds, "JSESSIONID=58f23a9b"); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}

	creds, token, err := store.Load()
	if err != nil {
		t.Fatalf("读取会话失败: %v", err)
	}

	if creds != testCreds {
		t.Errorf("凭据不一致: 期望%#v，得到%#v", testCreds, creds)
	}
	if token != "JSESSIONID=58f23a9b" {
		t.Errorf("令牌不一致: %q", token)
	}
}

func TestStoreFileFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.Save(testCreds, "JSESSIONID=x"); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}

	// 固定的五行格式：host、user、password、port、token
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("读取会话文件失败: %v", err)
	}

	want := "raid.example.com\nalice\nsecret\n8080\nJSESSIONID=x\n"
	if string(data) != want {
		t.Errorf("会话文件格式错误:\n期望: %q\n实际: %q", want, data)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nonexistent"))

	if _, _, err := store.Load(); err == nil {
		t.Error("读取不存在的会话文件应当返回错误")
	}
}

func TestStoreLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := os.WriteFile(store.Path(), []byte("only\ntwo\n"), 0600); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	if _, _, err := store.Load(); err == nil {
		t.Error("行数不足的会话文件应当返回错误")
	}
}

func TestStoreLoadInvalidPort(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	content := strings.Join([]string{"host", "user", "pass", "not-a-port", "token"}, "\n") + "\n"
	if err := os.WriteFile(store.Path(), []byte(content), 0600); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	if _, _, err := store.Load(); err == nil {
		t.Error("端口不是数字时应当返回错误")
	}
}

func TestStoreRemove(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save(testCreds, "JSESSIONID=x"); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}
	if !store.Exists() {
		t.Fatal("会话文件应当存在")
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("删除会话文件失败: %v", err)
	}
	if store.Exists() {
		t.Error("删除后会话文件不应存在")
	}

	// 重复删除不报错
	if err := store.Remove(); err != nil {
		t.Errorf("删除不存在的会话文件不应报错: %v", err)
	}
}

func TestStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	store := NewStore(dir)

	if err := store.Save(testCreds, "JSESSIONID=x"); err != nil {
		t.Fatalf("保存会话时应当自动创建目录: %v", err)
	}
	if !store.Exists() {
		t.Error("会话文件应当存在")
	}
}

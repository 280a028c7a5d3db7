package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MarkusH/CloudRAID-Client/internal/logger"
	"github.com/MarkusH/CloudRAID-Client/internal/models"
	"github.com/MarkusH/CloudRAID-Client/internal/session"
)

// 协议使用的请求/响应头
const (
	headerUser          = "X-Username"
	headerPassword      = "X-Password"
	headerConfirm       = "X-Confirm"
	headerContentLength = "Content-Length"
	headerSetCookie     = "Set-Cookie"
	headerCookie        = "Cookie"
)

const (
	// sessionKeyPrefix 会话令牌在Set-Cookie头中的前缀
	sessionKeyPrefix = "JSESSIONID="

	// copyBufferSize 文件传输的拷贝缓冲区大小
	copyBufferSize = 4096
)

// Connector 管理与CloudRAID服务器的连接。
// 所有操作都是单次同步的请求/响应，Connector本身不做并发保护，
// 并发调用方需要自行串行化或每个worker使用独立实例
type Connector struct {
	creds     models.Credentials
	transport Transport
	store     *session.Store // 可选，登出时用于清除持久化的会话记录
	tempDir   string
	session   string // 当前会话令牌，空字符串表示未认证
	listeners []Listener
}

// New 创建Connector。凭据在实例生命周期内不可变
func New(creds models.Credentials, transport Transport) *Connector {
	return &Connector{
		creds:     creds,
		transport: transport,
		tempDir:   os.TempDir(),
	}
}

// SetTempDir 设置下载临时文件的存放目录
func (c *Connector) SetTempDir(dir string) {
	c.tempDir = dir
}

// SetSessionStore 关联会话持久化存储，
// 登出清除本地令牌时会同时删除持久化的会话记录
func (c *Connector) SetSessionStore(store *session.Store) {
	c.store = store
}

// Credentials 返回连接凭据
func (c *Connector) Credentials() models.Credentials {
	return c.creds
}

// Session 返回当前会话令牌，空字符串表示未认证
func (c *Connector) Session() string {
	return c.session
}

// Authenticated 返回是否处于已认证状态
func (c *Connector) Authenticated() bool {
	return c.session != ""
}

// String 返回连接的可读描述，不包含密码
func (c *Connector) String() string {
	return fmt.Sprintf("ServerConnection: %s@%s, authenticated: %t",
		c.creds.User, c.creds.Address(), c.Authenticated())
}

// sessionHeader 构造携带当前会话令牌的请求头。
// 未认证时不携带Cookie头，由服务器报告401
func (c *Connector) sessionHeader() map[string]string {
	header := map[string]string{}
	if c.session != "" {
		header[headerCookie] = c.session
	}
	return header
}

// filePath 构造文件操作的请求路径
func filePath(path string, update bool) string {
	p := "/file/" + path + "/"
	if update {
		p += "update/"
	}
	return p
}

// discardBody 排空并关闭响应体。关闭失败不影响主要结果
func discardBody(resp *Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// extractSession 从Set-Cookie头中提取会话令牌。
// 令牌是以分号分隔的片段中以sessionKeyPrefix开头的那一段，原样保存
func extractSession(setCookie string) (string, bool) {
	for _, part := range strings.Split(setCookie, ";") {
		if strings.HasPrefix(part, sessionKeyPrefix) {
			return part, true
		}
	}
	return "", false
}

// Login 使用构造时的凭据登录服务器。
// 成功后进入已认证状态，失败时保持未认证且不做重试
func (c *Connector) Login(ctx context.Context) error {
	logger.LogRequest("login", http.MethodPost, "/user/auth/")
	resp, err := c.transport.Do(ctx, http.MethodPost, "/user/auth/", map[string]string{
		headerUser:     c.creds.User,
		headerPassword: c.creds.Password,
	}, nil, 0)
	if err != nil {
		return err
	}
	defer discardBody(resp)

	logger.LogResponse("login", resp.StatusCode)
	if err := loginTable.check(resp.StatusCode); err != nil {
		return err
	}

	token, ok := extractSession(resp.Header.Get(headerSetCookie))
	if !ok {
		return fmt.Errorf("login: no session cookie in response")
	}
	c.session = token
	logger.LogSessionChange("login", true)
	return nil
}

// Logout 结束服务器上的会话。
// 本地令牌在除405（会话头未发送）之外的所有结果下都会被清除；
// 清除令牌时同时删除持久化的会话记录
func (c *Connector) Logout(ctx context.Context) error {
	logger.LogRequest("logout", http.MethodGet, "/user/auth/logout/")
	resp, err := c.transport.Do(ctx, http.MethodGet, "/user/auth/logout/", c.sessionHeader(), nil, 0)
	if err != nil {
		return err
	}
	defer discardBody(resp)

	logger.LogResponse("logout", resp.StatusCode)
	checkErr := logoutTable.check(resp.StatusCode)

	// 405表示服务器根本没有收到会话头，此时保留本地令牌
	if resp.StatusCode != http.StatusMethodNotAllowed {
		c.session = ""
		if c.store != nil {
			_ = c.store.Remove()
		}
		logger.LogSessionChange("logout", false)
	}
	return checkErr
}

// GetFile 从服务器下载一个文件，写入新建的临时文件并返回其路径。
// 临时文件的后续移动和删除由调用方负责
func (c *Connector) GetFile(ctx context.Context, path string) (string, error) {
	start := time.Now()
	reqPath := filePath(path, false)
	logger.LogRequest("get", http.MethodGet, reqPath)
	resp, err := c.transport.Do(ctx, http.MethodGet, reqPath, c.sessionHeader(), nil, 0)
	if err != nil {
		return "", err
	}
	defer discardBody(resp)

	logger.LogResponse("get", resp.StatusCode)
	if err := getFileTable.check(resp.StatusCode); err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.tempDir, "cloudraid-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	buf := make([]byte, copyBufferSize)
	written, err := io.CopyBuffer(tmp, resp.Body, buf)
	_ = tmp.Close()
	if err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	logger.LogTransfer("get", path, tmp.Name(), written, time.Since(start))
	return tmp.Name(), nil
}

// PutFile 将本地文件上传到服务器。
// update为true时在路径后追加update段表示更新已有文件。
// Content-Length头设置为本地文件的精确字节数
func (c *Connector) PutFile(ctx context.Context, path string, localPath string, update bool) error {
	start := time.Now()

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	header := c.sessionHeader()
	header[headerContentLength] = strconv.FormatInt(info.Size(), 10)

	reqPath := filePath(path, update)
	logger.LogRequest("put", http.MethodPut, reqPath)
	resp, err := c.transport.Do(ctx, http.MethodPut, reqPath, header, f, info.Size())
	if err != nil {
		return err
	}
	defer discardBody(resp)

	logger.LogResponse("put", resp.StatusCode)
	if err := putFileTable.check(resp.StatusCode); err != nil {
		return err
	}

	logger.LogTransfer("put", path, localPath, info.Size(), time.Since(start))
	return nil
}

// DeleteFile 删除服务器上的一个文件
func (c *Connector) DeleteFile(ctx context.Context, path string) error {
	reqPath := filePath(path, false)
	logger.LogRequest("delete", http.MethodDelete, reqPath)
	resp, err := c.transport.Do(ctx, http.MethodDelete, reqPath, c.sessionHeader(), nil, 0)
	if err != nil {
		return err
	}
	defer discardBody(resp)

	logger.LogResponse("delete", resp.StatusCode)
	return deleteFileTable.check(resp.StatusCode)
}

// GetFileList 获取服务器的文件列表。
// 成功后按注册顺序把结果通知给每个Listener，然后返回给调用方
func (c *Connector) GetFileList(ctx context.Context) ([]models.RemoteFile, error) {
	logger.LogRequest("list", http.MethodGet, "/list/")
	resp, err := c.transport.Do(ctx, http.MethodGet, "/list/", c.sessionHeader(), nil, 0)
	if err != nil {
		return nil, err
	}
	defer discardBody(resp)

	logger.LogResponse("list", resp.StatusCode)
	if err := fileListTable.check(resp.StatusCode); err != nil {
		return nil, err
	}

	files, dropped, err := parseFileList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}

	logger.LogFileList(len(files), dropped)
	c.notifyListeners(files)
	return files, nil
}

// CreateUser 请求服务器创建新用户。
// confirm为密码的二次确认，不要求已认证状态
func (c *Connector) CreateUser(ctx context.Context, confirm string) error {
	logger.LogRequest("create user", http.MethodPost, "/user/add/")
	resp, err := c.transport.Do(ctx, http.MethodPost, "/user/add/", map[string]string{
		headerUser:     c.creds.User,
		headerPassword: c.creds.Password,
		headerConfirm:  confirm,
	}, nil, 0)
	if err != nil {
		return err
	}
	defer discardBody(resp)

	logger.LogResponse("create user", resp.StatusCode)
	return createUserTable.check(resp.StatusCode)
}

// StoreSession 将当前会话持久化。没有活动会话时不执行任何操作
func (c *Connector) StoreSession(store *session.Store) error {
	if c.session == "" {
		return nil
	}
	return store.Save(c.creds, c.session)
}

// RestoreSession 从持久化存储恢复一个已认证的Connector，不与服务器通信，
// 令牌的有效性在首次使用前不做校验。transport为nil时使用默认的HTTP传输层
func RestoreSession(store *session.Store, transport Transport) (*Connector, error) {
	creds, token, err := store.Load()
	if err != nil {
		return nil, err
	}
	if transport == nil {
		transport = NewHTTPTransport(creds.Host, creds.Port)
	}

	c := New(creds, transport)
	c.session = token
	c.store = store
	logger.LogSessionChange("restore", true)
	return c, nil
}

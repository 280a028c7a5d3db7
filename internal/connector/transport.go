package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response 传输层响应
type Response struct {
	StatusCode int           // HTTP状态码
	Header     http.Header   // 响应头
	Body       io.ReadCloser // 响应体，调用方负责关闭
}

// Transport 传输层接口，抽象化HTTP请求执行
type Transport interface {
	// Do 发送一次请求并返回响应。非2xx状态码不视为错误，
	// 响应体在任何状态码下都必须可读、可关闭
	Do(ctx context.Context, method, path string, header map[string]string, body io.Reader, contentLength int64) (*Response, error)
}

// HTTPTransport 基于net/http的传输层实现
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport 创建HTTP传输层实例
func NewHTTPTransport(host string, port int) *HTTPTransport {
	return &HTTPTransport{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		client:  &http.Client{},
	}
}

// buildURL 拼接完整请求地址
func (t *HTTPTransport) buildURL(path string) string {
	return t.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do 实现Transport接口
func (t *HTTPTransport) Do(ctx context.Context, method, path string, header map[string]string, body io.Reader, contentLength int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.buildURL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, val := range header {
		req.Header.Set(key, val)
	}

	// 有请求体时明确设置长度，避免chunked编码。
	// 空文件上传同样要携带Content-Length: 0，
	// ContentLength为0且Body非空会被当作长度未知
	if body != nil {
		req.ContentLength = contentLength
		if contentLength == 0 {
			req.Body = http.NoBody
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

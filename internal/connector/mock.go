package connector

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// MockRequest 记录MockTransport收到的一次请求
type MockRequest struct {
	Method        string
	Path          string
	Header        map[string]string
	Body          []byte
	ContentLength int64
}

// MockTransport 模拟传输层实现，用于测试。
// 每次Do返回配置的状态码、响应头和响应体，并记录收到的请求
type MockTransport struct {
	StatusCode int
	Header     http.Header
	BodyText   string
	Err        error // 非nil时模拟传输层故障

	Requests []MockRequest // 按顺序记录收到的请求
}

// Do 实现Transport接口
func (m *MockTransport) Do(ctx context.Context, method, path string, header map[string]string, body io.Reader, contentLength int64) (*Response, error) {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = io.ReadAll(body)
	}

	// 复制请求头，避免调用方后续修改影响记录
	headerCopy := make(map[string]string, len(header))
	for key, val := range header {
		headerCopy[key] = val
	}

	m.Requests = append(m.Requests, MockRequest{
		Method:        method,
		Path:          path,
		Header:        headerCopy,
		Body:          bodyBytes,
		ContentLength: contentLength,
	})

	if m.Err != nil {
		return nil, m.Err
	}

	respHeader := m.Header
	if respHeader == nil {
		respHeader = http.Header{}
	}

	return &Response{
		StatusCode: m.StatusCode,
		Header:     respHeader,
		Body:       io.NopCloser(strings.NewReader(m.BodyText)),
	}, nil
}

// LastRequest 返回最近记录的请求，没有请求时返回nil
func (m *MockTransport) LastRequest() *MockRequest {
	if len(m.Requests) == 0 {
		return nil
	}
	return &m.Requests[len(m.Requests)-1]
}

package connector

import (
	"fmt"
)

// ErrorKind 协议错误类别
type ErrorKind string

const (
	KindInvalidCredentials      ErrorKind = "invalid_credentials"
	KindAlreadyAuthenticated    ErrorKind = "already_authenticated"
	KindSessionCreationFailed   ErrorKind = "session_creation_failed"
	KindNotAuthenticated        ErrorKind = "not_authenticated"
	KindSessionNotTransmitted   ErrorKind = "session_not_transmitted"
	KindSessionStoreUnavailable ErrorKind = "session_store_unavailable"
	KindFileNotFound            ErrorKind = "file_not_found"
	KindConflict                ErrorKind = "conflict"
	KindContentLengthRequired   ErrorKind = "content_length_required"
	KindDeleteFailed            ErrorKind = "delete_failed"
	KindListFailed              ErrorKind = "list_failed"
	KindInvalidRequest          ErrorKind = "invalid_request"
	KindRegistrationFailed      ErrorKind = "registration_failed"
	KindUnknownServerError      ErrorKind = "unknown_server_error"
)

// 服务器各状态码对应的描述文本
const (
	detailNotLoggedIn     = "not logged in"
	detailFileNotFound    = "file not found"
	detailSessionNotSent  = "session not transmitted"
	detailAlreadyLoggedIn = "already logged in"
	detailConflict        = "conflict"
	detailLengthRequired  = "content-length required"
	detailNoSession       = "session does not exist"
	detailUnknown         = "unknown error"
)

// HTTPError 协议层错误，携带操作名、HTTP状态码、错误类别和描述
type HTTPError struct {
	Op     string    // 操作名，如"login"
	Status int       // HTTP状态码
	Kind   ErrorKind // 错误类别
	Detail string    // 可读描述
}

// Error 实现error接口
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Detail, e.Status)
}

// statusEntry 状态码映射表中的一个条目
type statusEntry struct {
	kind   ErrorKind
	detail string
}

// statusTable 单个操作的状态码映射表。
// 每个操作的协议契约完全由该表描述：success为成功状态码，
// entries为已知失败状态码，表外的状态码一律映射为KindUnknownServerError
type statusTable struct {
	op      string
	success int
	entries map[int]statusEntry
}

var (
	loginTable = statusTable{op: "login", success: 202, entries: map[int]statusEntry{
		403: {KindInvalidCredentials, "wrong username or password"},
		406: {KindAlreadyAuthenticated, detailAlreadyLoggedIn},
		503: {KindSessionCreationFailed, "session could not be created"},
	}}

	logoutTable = statusTable{op: "logout", success: 200, entries: map[int]statusEntry{
		401: {KindNotAuthenticated, detailNotLoggedIn},
		405: {KindSessionNotTransmitted, detailSessionNotSent},
		503: {KindSessionStoreUnavailable, detailNoSession},
	}}

	getFileTable = statusTable{op: "get", success: 200, entries: map[int]statusEntry{
		401: {KindNotAuthenticated, detailNotLoggedIn},
		404: {KindFileNotFound, detailFileNotFound},
		405: {KindSessionNotTransmitted, detailSessionNotSent},
		503: {KindSessionStoreUnavailable, detailNoSession},
	}}

	putFileTable = statusTable{op: "put", success: 201, entries: map[int]statusEntry{
		401: {KindNotAuthenticated, detailNotLoggedIn},
		404: {KindFileNotFound, detailFileNotFound},
		405: {KindSessionNotTransmitted, detailSessionNotSent},
		409: {KindConflict, detailConflict},
		411: {KindContentLengthRequired, detailLengthRequired},
		503: {KindSessionStoreUnavailable, detailNoSession},
	}}

	deleteFileTable = statusTable{op: "delete", success: 200, entries: map[int]statusEntry{
		401: {KindNotAuthenticated, detailNotLoggedIn},
		404: {KindFileNotFound, detailFileNotFound},
		405: {KindSessionNotTransmitted, detailSessionNotSent},
		500: {KindDeleteFailed, "error deleting the file"},
		503: {KindSessionStoreUnavailable, detailNoSession},
	}}

	fileListTable = statusTable{op: "list", success: 200, entries: map[int]statusEntry{
		401: {KindNotAuthenticated, detailNotLoggedIn},
		405: {KindSessionNotTransmitted, detailSessionNotSent},
		500: {KindListFailed, "error getting the file information"},
		503: {KindSessionStoreUnavailable, detailNoSession},
	}}

	createUserTable = statusTable{op: "create user", success: 200, entries: map[int]statusEntry{
		400: {KindInvalidRequest, "user name and/or password and/or confirmation missing/wrong"},
		406: {KindAlreadyAuthenticated, detailAlreadyLoggedIn},
		500: {KindRegistrationFailed, "error while adding user to database"},
	}}
)

// check 根据映射表将状态码转换为错误，成功状态码返回nil
func (t statusTable) check(status int) error {
	if status == t.success {
		return nil
	}
	if entry, ok := t.entries[status]; ok {
		return &HTTPError{Op: t.op, Status: status, Kind: entry.kind, Detail: entry.detail}
	}
	return &HTTPError{Op: t.op, Status: status, Kind: KindUnknownServerError, Detail: detailUnknown}
}

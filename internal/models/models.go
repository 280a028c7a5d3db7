package models

import (
	"fmt"
	"time"
)

// RemoteFile 服务器文件列表中的一个条目（由列表解析器创建，之后不可变）
type RemoteFile struct {
	Name    string    `json:"name"`     // 文件名（已处理转义字符）
	Hash    string    `json:"hash"`     // 内容哈希
	ModTime time.Time `json:"mod_time"` // 最后修改时间
	State   string    `json:"state"`    // 服务器定义的文件状态
}

// Credentials 服务器连接凭据，在Connector的生命周期内不可变
type Credentials struct {
	Host     string `json:"host"`     // 服务器主机名
	User     string `json:"user"`     // 用户名
	Password string `json:"password"` // 密码
	Port     int    `json:"port"`     // 服务器端口
}

// Address 返回host:port形式的服务器地址
func (c Credentials) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Config CLI运行配置
type Config struct {
	Host       string `json:"host"`        // 服务器主机名
	User       string `json:"user"`        // 用户名
	Port       int    `json:"port"`        // 服务器端口
	SessionDir string `json:"session_dir"` // 会话文件存储目录
	TempDir    string `json:"temp_dir"`    // 下载临时文件目录
}

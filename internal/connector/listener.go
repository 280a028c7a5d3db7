package connector

import (
	"github.com/MarkusH/CloudRAID-Client/internal/models"
)

// Listener 文件列表的消费者。
// 每次成功的列表请求后按注册顺序收到同一份结果，恰好一次
type Listener interface {
	OnFileList(files []models.RemoteFile)
}

// ListenerFunc 将普通函数适配为Listener
type ListenerFunc func(files []models.RemoteFile)

// OnFileList 实现Listener接口
func (f ListenerFunc) OnFileList(files []models.RemoteFile) {
	f(files)
}

// RegisterListener 注册一个Listener。注册后不会被自动移除
func (c *Connector) RegisterListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// notifyListeners 按注册顺序通知所有Listener
func (c *Connector) notifyListeners(files []models.RemoteFile) {
	for _, l := range c.listeners {
		l.OnFileList(files)
	}
}

package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// 运行所有测试后退出
	os.Exit(m.Run())
}

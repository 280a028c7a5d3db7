package connector

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/MarkusH/CloudRAID-Client/internal/models"
)

// listTimeLayout 服务器文件列表中的时间戳格式
const listTimeLayout = "2006-01-02 15:04:05.0"

// fieldSeparator 字段分隔符。列表行形如：
// "name","hash","1970-01-01 01:00:00.0","STATE"
const fieldSeparator = `","`

// maxListLineSize 单行的最大长度。
// bufio.Scanner默认的64KiB上限会让超长行中断整个列表
const maxListLineSize = 1024 * 1024

// parseFileList 解析服务器返回的文件列表文本。
// 不合法的行（字段数不为4、时间戳无法解析）静默丢弃，
// 不影响其余行的解析。返回解析出的条目、丢弃的行数和读取错误
func parseFileList(r io.Reader) ([]models.RemoteFile, int, error) {
	files := []models.RemoteFile{}
	dropped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxListLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 3 {
			continue // 跳过空行和过短的行
		}

		file, ok := parseListLine(line)
		if !ok {
			dropped++
			continue
		}
		files = append(files, file)
	}
	if err := scanner.Err(); err != nil {
		return nil, dropped, err
	}

	return files, dropped, nil
}

// parseListLine 解析文件列表中的一行。
// 去掉首尾的引号后按`","`切分，要求恰好4个字段：名称、哈希、时间戳、状态
func parseListLine(line string) (models.RemoteFile, bool) {
	parts := strings.Split(line[1:len(line)-1], fieldSeparator)
	if len(parts) != 4 {
		return models.RemoteFile{}, false
	}

	for i := range parts {
		parts[i] = unescapeField(parts[i])
	}

	modTime, err := time.Parse(listTimeLayout, parts[2])
	if err != nil {
		return models.RemoteFile{}, false
	}

	return models.RemoteFile{
		Name:    parts[0],
		Hash:    parts[1],
		ModTime: modTime,
		State:   parts[3],
	}, true
}

// unescapeField 还原字段中的字符实体，先&quot;后&amp;
func unescapeField(s string) string {
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return strings.ReplaceAll(s, "&amp;", "&")
}

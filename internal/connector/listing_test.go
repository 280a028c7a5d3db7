package connector

import (
	"strings"
	"testing"
	"time"
)

func TestParseFileList(t *testing.T) {
	body := strings.Join([]string{
		`"a&quot;b","h1","2020-01-01 00:00:00.0","OK"`,
		``,
		`"three","fields","2020-01-01 00:00:00.0"`,
		`"bad-time","h2","not a timestamp","OK"`,
		`"plain.txt","h3","2021-06-15 12:30:45.5","UPLOADING"`,
	}, "\n")

	files, dropped, err := parseFileList(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parseFileList failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if dropped != 2 {
		t.Errorf("Expected 2 dropped lines, got %d", dropped)
	}

	// 第一条：转义字符还原，时间戳精确解析
	first := files[0]
	if first.Name != `a"b` {
		t.Errorf("Expected name %q, got %q", `a"b`, first.Name)
	}
	if first.Hash != "h1" {
		t.Errorf("Expected hash h1, got %q", first.Hash)
	}
	if first.State != "OK" {
		t.Errorf("Expected state OK, got %q", first.State)
	}
	wantTime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !first.ModTime.Equal(wantTime) {
		t.Errorf("Expected mod time %v, got %v", wantTime, first.ModTime)
	}

	// 第二条：行序保持
	second := files[1]
	if second.Name != "plain.txt" || second.State != "UPLOADING" {
		t.Errorf("Unexpected second entry: %#v", second)
	}
}

func TestParseFileListEmptyBody(t *testing.T) {
	files, dropped, err := parseFileList(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseFileList failed: %v", err)
	}
	if len(files) != 0 || dropped != 0 {
		t.Errorf("Expected empty result, got %d files, %d dropped", len(files), dropped)
	}
}

func TestParseListLineUnescapeOrder(t *testing.T) {
	// &quot;先于&amp;处理：&amp;quot;还原为字面量&quot;而不是引号
	line := `"a&amp;quot;b","h&amp;1","2020-01-01 00:00:00.0","OK"`
	file, ok := parseListLine(line)
	if !ok {
		t.Fatal("Line should parse")
	}
	if file.Name != "a&quot;b" {
		t.Errorf("Expected name %q, got %q", "a&quot;b", file.Name)
	}
	if file.Hash != "h&1" {
		t.Errorf("Expected hash %q, got %q", "h&1", file.Hash)
	}
}

func TestParseFileListLongLine(t *testing.T) {
	// 超过bufio.Scanner默认64KiB上限的行不应让整个列表解析失败
	longName := strings.Repeat("a", 80*1024)
	body := strings.Join([]string{
		`"` + longName + `","h1","2020-01-01 00:00:00.0","OK"`,
		`"short.txt","h2","2020-01-01 00:00:00.0","OK"`,
	}, "\n")

	files, dropped, err := parseFileList(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parseFileList failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d (dropped %d)", len(files), dropped)
	}
	if files[0].Name != longName {
		t.Errorf("Long name not preserved, got %d chars", len(files[0].Name))
	}
	if files[1].Name != "short.txt" {
		t.Errorf("Unexpected second entry: %q", files[1].Name)
	}
}

func TestParseFileListShortLines(t *testing.T) {
	// 长度小于3的行直接跳过，不计入丢弃数
	body := "\"\"\nab\n" + `"ok.txt","h1","2020-01-01 00:00:00.0","OK"` + "\n"

	files, dropped, err := parseFileList(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parseFileList failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(files))
	}
	if dropped != 0 {
		t.Errorf("Short lines should not count as dropped, got %d", dropped)
	}
}

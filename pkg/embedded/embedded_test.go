package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

func resetForTest() {
	assetsFS = nil
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetForTest()
	defer resetForTest()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{}, fstest.MapFS{})

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	resetForTest()

	_, err := ReadFile("data/experience.yaml")
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

// TestReadFileByPrefix 测试按前缀分发到不同文件系统
func TestReadFileByPrefix(t *testing.T) {
	resetForTest()
	defer resetForTest()

	Init(
		fstest.MapFS{"assets/audio/whoosh.mp3": {Data: []byte("mp3")}},
		fstest.MapFS{"data/experience.yaml": {Data: []byte("sections: []")}},
	)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"data 前缀", "data/experience.yaml", "sections: []", false},
		{"带 ./ 前缀", "./data/experience.yaml", "sections: []", false},
		{"assets 前缀", "assets/audio/whoosh.mp3", "mp3", false},
		{"未知前缀", "config/experience.yaml", "", true},
		{"文件不存在", "data/missing.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

// TestExistsAndGlob 测试 Exists 与 Glob
func TestExistsAndGlob(t *testing.T) {
	resetForTest()
	defer resetForTest()

	Init(fstest.MapFS{
		"assets/audio/whoosh.mp3":   {Data: []byte("a")},
		"assets/audio/ambience.ogg": {Data: []byte("b")},
	}, nil)

	if !Exists("assets/audio/whoosh.mp3") {
		t.Error("Expected whoosh.mp3 to exist")
	}
	if Exists("data/experience.yaml") {
		t.Error("Expected data lookup to fail without a data filesystem")
	}

	matches, err := Glob("assets/audio/*")
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %d files, want 2", len(matches))
	}
}

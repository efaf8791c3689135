package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	tests := []struct {
		name string
		cfg  *LogConfig
		want string
	}{
		{name: "nil config", cfg: nil, want: filepath.Join(home, "logs")},
		{name: "disabled", cfg: &LogConfig{Enabled: false}, want: os.TempDir()},
		{name: "custom dir", cfg: &LogConfig{Enabled: true, Dir: "/custom/log/dir"}, want: "/custom/log/dir"},
		{name: "default dir", cfg: &LogConfig{Enabled: true}, want: filepath.Join(home, "logs")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := GetLogDir(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)
		})
	}
	assert.DirExists(t, filepath.Join(home, "logs"))
}

func TestGetConfigDirHonorsEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
}

func TestGetLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	path, err := GetLogFilePath(&LogConfig{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", FileName), path)

	path, err = GetLogFilePath(&LogConfig{Enabled: true, Dir: "/custom/log/dir"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/log/dir", FileName), path)
}

func TestOpenWriter(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  *LogConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "no rotation", cfg: &LogConfig{MaxSizeMB: 0}},
		{name: "rotation", cfg: &LogConfig{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30, Compress: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := openWriter(filepath.Join(dir, "nested", "test.log"), tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, w)
			_, err = w.Write([]byte("line\n"))
			require.NoError(t, err)
			require.NoError(t, w.Close())
		})
	}
	assert.FileExists(t, filepath.Join(dir, "nested", "test.log"))
}

func TestInitializeWritesToConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultLogConfig()
	cfg.Dir = dir
	cfg.MaxSizeMB = 0

	Initialize(cfg)
	InfoLog.Printf("hello from the test")
	Close()

	want := filepath.Join(dir, FileName)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
	assert.Equal(t, want, FilePath())
}

func TestEvery(t *testing.T) {
	e := NewEvery(time.Hour)
	assert.True(t, e.ShouldLog(), "first call logs")
	assert.False(t, e.ShouldLog(), "second call within the timeout is suppressed")

	e = NewEvery(time.Millisecond)
	require.True(t, e.ShouldLog())
	assert.Eventually(t, e.ShouldLog, time.Second, 5*time.Millisecond)
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/tmp/backup.json", want: "/tmp/backup.json"},
		{in: "/tmp/BACKUP.JSON", want: "/tmp/BACKUP.JSON"},
		{in: "/tmp/backups", want: filepath.Join("/tmp/backups", "config.json")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocalPath(tt.in))
		})
	}
}

func TestLocalFileProvider(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "backups")

	l := NewLocalFileProvider("")
	_, err := l.Read(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, l.Connect(ctx, Credentials{Path: dir}))
	assert.True(t, l.IsConnected())
	assert.Equal(t, filepath.Join(dir, "config.json"), l.Path())
	assert.DirExists(t, dir)

	cfg, err := l.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg, "missing file holds no snapshot")

	require.NoError(t, l.Write(ctx, sampleConfig()))
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"default\": {")

	got, err := l.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"golang.go"}, got.Default.Extensions)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLocalFileProvider_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	l := NewLocalFileProvider(filepath.Join(dir, "fallback.json"))
	require.NoError(t, l.Connect(context.Background(), Credentials{}))
	assert.Equal(t, filepath.Join(dir, "fallback.json"), l.Path())
}

func TestLocalFileProvider_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default": `), 0644))

	l := NewLocalFileProvider("")
	require.NoError(t, l.Connect(context.Background(), Credentials{Path: path}))
	_, err := l.Read(context.Background())
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	f := NewFactory(FactoryOptions{LocalPath: "/tmp/x.json"})

	for _, tag := range []string{"gist", "GitHub", "blob"} {
		p, err := f.New(tag)
		require.NoError(t, err)
		assert.IsType(t, &GistProvider{}, p)
	}

	p, err := f.New("local")
	require.NoError(t, err)
	assert.IsType(t, &LocalFileProvider{}, p)

	_, err = f.New("dropbox")
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/mgrep/internal/types"
)

func TestParseTOML_FullConfig(t *testing.T) {
	content := `
version = 1
exclude = ["**/*.bin", "**/.git/**"]

[search]
max_tasks = 16
buffer_size = "16KB"
`
	cfg, err := parseTOML([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Search.MaxTasks)
	assert.Equal(t, 16*1024, cfg.Search.BufferSize)
	assert.Equal(t, []string{"**/*.bin", "**/.git/**"}, cfg.Exclude)
}

func TestParseTOML_Defaults(t *testing.T) {
	cfg, err := parseTOML(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 0, cfg.Search.MaxTasks)
	assert.Equal(t, types.DefaultReadBufferSize, cfg.Search.BufferSize)
}

func TestParseTOML_IntegerBufferSize(t *testing.T) {
	cfg, err := parseTOML([]byte("[search]\nbuffer_size = 2048\n"))
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Search.BufferSize)
}

func TestParseTOML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[search]\nmax_workers = 3\n"},
		{"bad size string", "[search]\nbuffer_size = \"huge\"\n"},
		{"bad size type", "[search]\nbuffer_size = true\n"},
		{"syntax", "[search\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTOML([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

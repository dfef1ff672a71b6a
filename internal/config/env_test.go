package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantEnv map[string]string
		wantErr bool
	}{
		{
			name: "plain and quoted values",
			content: `
# comment
KIOSK_ENV_A=value1
export KIOSK_ENV_B="quoted value"
KIOSK_ENV_C='single'
`,
			wantEnv: map[string]string{
				"KIOSK_ENV_A": "value1",
				"KIOSK_ENV_B": "quoted value",
				"KIOSK_ENV_C": "single",
			},
		},
		{
			name:    "only comments",
			content: "# nothing\n\n",
			wantEnv: map[string]string{},
		},
		{
			name:    "malformed line",
			content: "KIOSK_ENV_D\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := range tt.wantEnv {
				k := k
				require.NoError(t, os.Unsetenv(k))
				t.Cleanup(func() { _ = os.Unsetenv(k) })
			}

			path := filepath.Join(tmpDir, "test.env")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			err := LoadEnv(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for k, v := range tt.wantEnv {
				assert.Equal(t, v, os.Getenv(k))
			}
		})
	}
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	t.Setenv("KIOSK_ENV_EXISTING", "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KIOSK_ENV_EXISTING=from-file\n"), 0644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-process", os.Getenv("KIOSK_ENV_EXISTING"))
}

func TestLoadEnvOptional(t *testing.T) {
	assert.NoError(t, LoadEnvOptional(filepath.Join(t.TempDir(), "absent.env")))
	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}

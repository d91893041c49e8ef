package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "image", c.ImageDir())
	assert.Equal(t, "output_xml", c.OutputDir())
	assert.Equal(t, "working", c.WorkDir())
	assert.Equal(t, "magiskboot", c.Tools.Magiskboot)
	assert.Equal(t, "China", c.Region.Codes["CN"])
}

func TestLoadFile(t *testing.T) {
	c, err := Load(newViper(t, `
dirs:
  base: /firmware
  output: /tmp/out
tools:
  avbtool: /opt/avb/avbtool.py
boot:
  kernel-url: https://example.com/gki/{{.Version}}/Image
region:
  codes:
    us: United States
    kr: Korea
`))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/firmware", "image"), c.ImageDir())
	assert.Equal(t, "/tmp/out", c.OutputDir())
	assert.Equal(t, "/opt/avb/avbtool.py", c.Tools.Avbtool)
	assert.Equal(t, "https://example.com/gki/{{.Version}}/Image", c.Boot.KernelURL)
	assert.Equal(t, map[string]string{"US": "United States", "KR": "Korea"}, c.Region.Codes)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "same dirs", yaml: "dirs:\n  image: x\n  output: x\n"},
		{name: "bad code", yaml: "region:\n  codes:\n    USA: nope\n"},
		{name: "kernel url without template", yaml: "boot:\n  kernel-url: https://example.com/Image\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

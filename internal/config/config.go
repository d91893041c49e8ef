// Package config is used to load the configuration file
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blacktop/ltbox/pkg/region"
	"github.com/spf13/viper"
)

type dirs struct {
	Base   string `mapstructure:"base" json:"base"`
	Image  string `mapstructure:"image" json:"image"`
	Output string `mapstructure:"output" json:"output"`
	Work   string `mapstructure:"work" json:"work"`
}

type tools struct {
	Magiskboot string `mapstructure:"magiskboot" json:"magiskboot"`
	Avbtool    string `mapstructure:"avbtool" json:"avbtool"`
	Python     string `mapstructure:"python" json:"python"`
}

type boot struct {
	KernelURL string `mapstructure:"kernel-url" json:"kernel_url"`
}

type regions struct {
	Codes map[string]string `mapstructure:"codes" json:"codes"`
}

// Config is the configuration struct
type Config struct {
	Dirs   dirs    `mapstructure:"dirs" json:"dirs"`
	Tools  tools   `mapstructure:"tools" json:"tools"`
	Boot   boot    `mapstructure:"boot" json:"boot"`
	Region regions `mapstructure:"region" json:"region"`
}

// SetDefaults registers the default values with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dirs.base", ".")
	v.SetDefault("dirs.image", "image")
	v.SetDefault("dirs.output", "output_xml")
	v.SetDefault("dirs.work", "working")
	v.SetDefault("tools.magiskboot", "magiskboot")
	v.SetDefault("tools.avbtool", "avbtool.py")
	v.SetDefault("tools.python", "python3")
}

// ImageDir returns the firmware image directory.
func (c *Config) ImageDir() string { return c.path(c.Dirs.Image) }

// OutputDir returns the directory rewritten partition tables are written to.
func (c *Config) OutputDir() string { return c.path(c.Dirs.Output) }

// WorkDir returns the temporary working directory.
func (c *Config) WorkDir() string { return c.path(c.Dirs.Work) }

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dirs.Base, p)
}

func (c *Config) verify() error {
	if c.Dirs.Base == "" {
		c.Dirs.Base = "."
	}
	for name, dir := range map[string]string{
		"dirs.image":  c.Dirs.Image,
		"dirs.output": c.Dirs.Output,
		"dirs.work":   c.Dirs.Work,
	} {
		if dir == "" {
			return fmt.Errorf("config: %s must be set", name)
		}
	}
	if c.ImageDir() == c.OutputDir() || c.WorkDir() == c.OutputDir() || c.WorkDir() == c.ImageDir() {
		return fmt.Errorf("config: image, output and work directories must differ")
	}

	if len(c.Region.Codes) == 0 {
		codes, err := region.LoadCodes()
		if err != nil {
			return fmt.Errorf("config: %v", err)
		}
		c.Region.Codes = codes
	}
	normalized := make(map[string]string, len(c.Region.Codes))
	for code, name := range c.Region.Codes {
		code, err := region.Normalize(code)
		if err != nil {
			return fmt.Errorf("config: region.codes: %v", err)
		}
		normalized[code] = name
	}
	c.Region.Codes = normalized

	if c.Boot.KernelURL != "" && !strings.Contains(c.Boot.KernelURL, "{{") {
		return fmt.Errorf("config: boot.kernel-url must be a template containing {{.Version}}")
	}

	return nil
}

// Load unmarshals and verifies the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c *Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

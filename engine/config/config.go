// Package config holds the YAML settings shared by extract_mix and mixview.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/1siamBot/mixkit/engine/mix"
)

type Config struct {
	Archive string    `yaml:"archive"`
	Output  string    `yaml:"output"`
	Select  Selection `yaml:"select"`
	Workers int       `yaml:"workers"`
	Palette Palette   `yaml:"palette"`
	Export  Export    `yaml:"export"`
	Log     Log       `yaml:"log"`
}

// Selection picks which archive entries are decoded. Empty means every entry.
type Selection struct {
	Names      []string `yaml:"names,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
}

type Palette struct {
	// MaskLightColors blacks out indices 0xF4-0xF7 while decoding.
	MaskLightColors bool `yaml:"mask_light_colors"`
	// TransparentZero exports index 0 with alpha 0.
	TransparentZero bool `yaml:"transparent_zero"`
}

type Export struct {
	Scale        int  `yaml:"scale"`
	SheetColumns int  `yaml:"sheet_columns"`
	Frames       bool `yaml:"frames"`
	Sheets       bool `yaml:"sheets"`
	Palettes     bool `yaml:"palettes"`
	DumpRaw      bool `yaml:"dump_raw"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Output:  "assets/mix",
		Workers: runtime.NumCPU(),
		Export: Export{
			Scale:        1,
			SheetColumns: 8,
			Frames:       true,
			Sheets:       true,
			Palettes:     true,
		},
		Log: Log{Level: "info"},
	}
}

// Load decodes YAML over the defaults.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Export.Scale < 1 {
		errs = append(errs, fmt.Errorf("export.scale must be at least 1, got %d", c.Export.Scale))
	}
	if c.Export.SheetColumns < 1 {
		errs = append(errs, fmt.Errorf("export.sheet_columns must be at least 1, got %d", c.Export.SheetColumns))
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Filter returns the entry predicate described by the selection, nil for all.
func (s Selection) Filter() func(mix.Entry) bool {
	if len(s.Names) == 0 && len(s.Extensions) == 0 {
		return nil
	}
	byName := mix.ByName(s.Names...)
	byExt := mix.ByExt(s.Extensions...)
	return func(e mix.Entry) bool {
		return byName(e) || byExt(e)
	}
}

// DecodeOptions maps the settings onto decoder options.
func (c *Config) DecodeOptions() []mix.Option {
	opts := []mix.Option{mix.WithWorkers(c.Workers)}
	if c.Palette.MaskLightColors {
		opts = append(opts, mix.WithLightColorsMasked())
	}
	return opts
}

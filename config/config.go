// Package config holds the settings shared by the command line tool and the web viewer.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/scenewalk/assets"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenes"
	"github.com/mogaika/scenewalk/vfs"
)

type Config struct {
	Address string `yaml:"address"`
	Seed    int64  `yaml:"seed"`
	// Directory with meshes, images and shaders; only the built-in primitives are used when empty.
	Assets        string  `yaml:"assets"`
	Scene         string  `yaml:"scene"`
	Shininess     float32 `yaml:"shininess"`
	Policy        string  `yaml:"policy"`
	CraneSegments int     `yaml:"crane_segments"`
}

func Default() *Config {
	return &Config{
		Address:       ":8000",
		Seed:          1,
		Scene:         "crane",
		Shininess:     scenes.DefaultWuggyShininess,
		Policy:        scene.RenameDuplicates.String(),
		CraneSegments: scenes.DefaultCraneSegments,
	}
}

// Load reads yaml over the defaults and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Failed to decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open config")
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	if _, err := scene.ParseNamePolicy(c.Policy); err != nil {
		return err
	}
	if c.CraneSegments < 2 {
		return errors.Errorf("crane_segments must be at least 2, got %d", c.CraneSegments)
	}
	if c.Shininess < render.MinShininess || c.Shininess > render.MaxShininess {
		return errors.Errorf("shininess %v out of [%v, %v]", c.Shininess, render.MinShininess, render.MaxShininess)
	}
	if c.Scene == "" {
		return errors.New("no scene")
	}
	return nil
}

func (c *Config) NamePolicy() scene.NamePolicy {
	p, _ := scene.ParseNamePolicy(c.Policy)
	return p
}

// Provider opens the assets directory on top of the built-in primitives.
func (c *Config) Provider() (assets.Provider, error) {
	var dir vfs.Directory
	if c.Assets != "" {
		st, err := os.Stat(c.Assets)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to open assets")
		}
		if !st.IsDir() {
			return nil, errors.Errorf("assets %q is not a directory", c.Assets)
		}
		dir = vfs.NewDirectoryDriver(c.Assets)
	}
	s := assets.NewStorage(dir)
	if err := assets.RegisterPrimitives(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Config) SceneOptions() (scenes.Options, error) {
	provider, err := c.Provider()
	if err != nil {
		return scenes.Options{}, err
	}
	return scenes.Options{
		Assets:        provider,
		Seed:          c.Seed,
		Policy:        c.NamePolicy(),
		CraneSegments: c.CraneSegments,
		Shininess:     c.Shininess,
	}, nil
}

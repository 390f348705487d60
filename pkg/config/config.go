// Package config loads the read job description from a YAML file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Config is the on-disk description of one secure file read.
type Config struct {
	Reader ReaderConfig `yaml:"reader"`
	Read   ReadConfig   `yaml:"read"`
	Debug  bool         `yaml:"debug"`
}

// ReaderConfig selects the PC/SC reader and the transport deadlines.
type ReaderConfig struct {
	Index           int      `yaml:"index"`
	PollTimeout     Duration `yaml:"poll_timeout"`
	ExchangeTimeout Duration `yaml:"exchange_timeout"`
}

// Duration accepts Go duration strings ("8s", "500ms") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the native duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ReadConfig carries the card coordinates and the byte window. Hex
// fields are written the human way, big-endian.
type ReadConfig struct {
	ApplicationID     string `yaml:"application_id"`
	FileID            string `yaml:"file_id"`
	KeyNumber         string `yaml:"key_number"`
	AuthKey           string `yaml:"auth_key"`
	FirstBytePosition uint   `yaml:"first_byte_position"`
	LastBytePosition  uint   `yaml:"last_byte_position"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the hex fields up front so a bad file fails at load
// time, not halfway through a card session.
func (c *Config) Validate() error {
	r := c.Read
	if len(r.ApplicationID) != 6 || !hexstr.IsHex(r.ApplicationID) {
		return errors.Errorf("application_id must be 6 hex chars, got %q", r.ApplicationID)
	}
	if len(r.FileID) != 2 || !hexstr.IsHex(r.FileID) {
		return errors.Errorf("file_id must be one hex byte, got %q", r.FileID)
	}
	if len(r.KeyNumber) != 2 || !hexstr.IsHex(r.KeyNumber) {
		return errors.Errorf("key_number must be one hex byte, got %q", r.KeyNumber)
	}
	if len(r.AuthKey) != 32 || !hexstr.IsHex(r.AuthKey) {
		return errors.New("auth_key must be 32 hex chars")
	}
	if c.Reader.Index < 0 {
		return errors.Errorf("reader index must not be negative, got %d", c.Reader.Index)
	}
	return nil
}

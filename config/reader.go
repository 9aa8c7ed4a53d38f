package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Read reads a config from the given file. `${VAR}` references are expanded from the
// environment before decoding.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.Wrap(io.EOF, "failed to decode Config from json5")
	}

	cfg := Config{
		ConfigFilePath: originalPath,
	}
	// JSON5 allows comments, trailing commas and unquoted keys in hand written configs.
	if err := json5.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json5")
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	return &cfg, nil
}

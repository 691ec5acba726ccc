package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// LoadDotEnv reads KEY=VALUE pairs from a dotenv file. A missing file is
// not an error. The process environment is left untouched.
func LoadDotEnv(fileSys afero.Fs, path string) (map[string]string, error) {
	file, err := fileSys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("open env file %q: %w", path, err)
	}

	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse env file %q: %w", path, err)
	}

	return values, nil
}

// Chain returns a LookupFunc that prefers env and falls back to the values
// read from a dotenv file. Variables already in the environment win.
func Chain(env LookupFunc, dotenv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := env(key); ok {
			return v, true
		}

		v, ok := dotenv[key]

		return v, ok
	}
}

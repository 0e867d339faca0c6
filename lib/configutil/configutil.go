package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func localName(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

func readOptional(name string) ([]byte, error) {
	contents, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return contents, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// note: the local file is merged with mergo, so it cannot reset a value to
// its zero value. use ReadInto when that matters.
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	defaultFile, err := readOptional(name)
	if err != nil {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := localName(name)
	localFile, err := readOptional(localFilepath)
	if err != nil {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

// ReadInto decodes <name>.<ext> then <name>.local.<ext> over the values
// already in out. Keys present in a file always win, zero values included,
// keys absent from both files keep what out held.
func ReadInto[T any](name string, out *T) error {
	allNotFound := true
	for _, file := range []string{name, localName(name)} {
		contents, err := readOptional(file)
		if err != nil {
			return err
		}
		if len(contents) == 0 {
			continue
		}
		err = json5.Unmarshal(contents, out)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		allNotFound = false
	}
	if allNotFound {
		return os.ErrNotExist
	}
	return nil
}

// FindRecursively goes up the filesystem from the cwd until it finds a
// directory holding name or its local override, and returns the path of
// name in that directory.
func FindRecursively(name string) (string, error) {
	current, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(current, name)
		for _, file := range []string{candidate, localName(candidate)} {
			info, err := os.Stat(file)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", os.ErrNotExist
		}
		current = parent
	}
}

// ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var out T
	path, err := FindRecursively(name)
	if err != nil {
		return out, err
	}
	return ReadConfig[T](path)
}

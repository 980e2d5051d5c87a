package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const DotEnv = ".env"

// ReadEnvFile parses dotenv file. Missing file is not an error and yields an empty map.
func ReadEnvFile(filename string) (map[string]string, error) {
	ans, err := godotenv.Read(filename)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return ans, nil
}

// Environ merges project .env file with process environment. Process environment has higher priority.
func Environ(projectDir string) (map[string]string, error) {
	env, err := ReadEnvFile(filepath.Join(projectDir, DotEnv))
	if err != nil {
		return nil, err
	}

	for _, item := range os.Environ() {
		kv := strings.SplitN(item, "=", 2) //nolint:gomnd
		if len(kv) != 2 {                  //nolint:gomnd
			continue
		}
		env[kv[0]] = kv[1]
	}

	return env, nil
}

// UpsertEnvFile sets key to value in the dotenv file, keeping every other line (comments included) as is.
// Existing assignments of the key are replaced in place, otherwise the assignment is appended.
// Returns previous value of the key, if any.
func UpsertEnvFile(filename string, key, value string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read env file: %w", err)
	}
	content := string(data)

	previous, err := godotenv.Unmarshal(content)
	if err != nil {
		return "", fmt.Errorf("parse env file: %w", err)
	}

	assignment := key + "=" + value
	lines := strings.Split(content, "\n")
	var found bool
	for i, line := range lines {
		if isAssignment(line, key) {
			lines[i] = assignment
			found = true
		}
	}

	if !found {
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, assignment, "")
	}

	if err := WriteFileLocked(filename, []byte(strings.Join(lines, "\n")), 0644); err != nil { //nolint:gosec
		return "", fmt.Errorf("write env file: %w", err)
	}

	return previous[key], nil
}

func isAssignment(line string, key string) bool {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "export ")
	line = strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(line, key) {
		return false
	}
	rest := strings.TrimLeft(line[len(key):], " \t")
	return strings.HasPrefix(rest, "=")
}

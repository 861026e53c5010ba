package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName — имя конфига рядом с бинарником.
const DefaultFileName = "config.yaml"

// ResolvePath ищет файл конфигурации.
//
// Порядок строгий:
//  1. Явный путь из флага -config
//  2. config.yaml рядом с бинарником
//  3. config.yaml в текущей директории
func ResolvePath(flagValue string) (string, error) {
	if flagValue != "" {
		if _, err := os.Stat(flagValue); err != nil {
			return "", fmt.Errorf("config file not found at: %s", flagValue)
		}
		return flagValue, nil
	}

	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}

	return "", fmt.Errorf("%s not found next to the binary or in the current directory", DefaultFileName)
}

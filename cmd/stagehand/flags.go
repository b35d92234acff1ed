package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validateRequestPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("request file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve request path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("request file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("request path %s is a directory", abs)
	}

	return nil
}

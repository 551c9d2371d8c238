package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// SaveJson marshals data into the file at path, creating the parent folders if needed
func SaveJson(path string, data interface{}) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return writeFile(path, bs)
}

// WriteLines writes each line to the file at path terminated by a new line
func WriteLines(path string, lines ...string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return writeFile(path, []byte(b.String()))
}

// AppendToFile appends the content to the file, one entry per line
func AppendToFile(savePath string, content ...string) error {
	if err := ensureDir(savePath); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, bs []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

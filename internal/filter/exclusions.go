package filter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadManualExclusions reads manual exclusions from a file, one per line.
// Blank lines and lines starting with # are skipped. A missing file is not
// an error: the exclusion list is simply empty.
func (f *Filter) LoadManualExclusions(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open exclusions %s: %w", path, err)
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f.manual[manualKey(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read exclusions %s: %w", path, err)
	}
	return nil
}

// SaveManualExclusions writes the manual exclusion list, sorted, with a
// comment header. The write is atomic: temp file + rename.
func (f *Filter) SaveManualExclusions(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	lines := make([]string, 0, len(f.manual))
	for text := range f.manual {
		lines = append(lines, text)
	}
	sort.Strings(lines)

	var b strings.Builder
	b.WriteString("# Manual exclusions - one per line\n")
	b.WriteString("# Lines starting with # are comments\n\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(dir, ".exclusions-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

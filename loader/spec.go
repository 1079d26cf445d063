package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SpecEntry is one line of a .spec container: a binary file and the
// address it is loaded at.
type SpecEntry struct {
	Path string
	Addr uint32
	Line int
}

// SpecError reports a malformed .spec line.
type SpecError struct {
	Line int
	Text string
	Msg  string
}

func (err *SpecError) Error() string {
	return fmt.Sprintf("spec line %d: %s: %q", err.Line, err.Msg, err.Text)
}

// ParseSpec parses a .spec container. Each entry has the form
// "path = hexaddr"; '#' starts a comment and blank lines are skipped.
// A file named twice keeps the address of its last entry. Entries are
// returned sorted by path.
func ParseSpec(r io.Reader) ([]SpecEntry, error) {
	byPath := make(map[string]SpecEntry)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		path, num, ok := strings.Cut(text, "=")
		if !ok {
			return nil, &SpecError{Line: line, Text: text, Msg: "missing '='"}
		}
		path = strings.TrimSpace(path)
		num = strings.TrimSpace(num)
		if path == "" {
			return nil, &SpecError{Line: line, Text: text, Msg: "missing file name"}
		}

		num = strings.TrimPrefix(strings.TrimPrefix(num, "0x"), "0X")
		addr, err := strconv.ParseUint(num, 16, 32)
		if err != nil {
			return nil, &SpecError{Line: line, Text: text, Msg: "bad hex address"}
		}

		byPath[path] = SpecEntry{Path: path, Addr: uint32(addr), Line: line}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}

	entries := make([]SpecEntry, 0, len(byPath))
	for _, entry := range byPath {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// LoadSpec reads a .spec container and every binary it names, in the order
// ParseSpec returns them, so a later path overwrites overlapping bytes of
// an earlier one. Relative paths are resolved against the directory of the
// container.
func LoadSpec(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ParseSpec(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	prog := newProgram()
	for _, entry := range entries {
		file := entry.Path
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: failed to read %s: %w", path, entry.Line, entry.Path, err)
		}

		prog.Segments = append(prog.Segments, Segment{Addr: entry.Addr, Data: data, Name: entry.Path})
	}

	return prog, nil
}

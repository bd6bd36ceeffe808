package pipeline

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultInputDir = "tweet_input"

var (
	// ErrInputNotFound is returned when the input path does not exist.
	ErrInputNotFound = errors.New("input not found")
	// ErrNoInputFiles is returned when the input directory holds no tweet files.
	ErrNoInputFiles = errors.New("no input files")
)

// inputPatterns lists the files picked up from an input directory.
var inputPatterns = []string{"*.txt", "*.json", "*.jsonl", "*.gz"}

// maxLineBytes bounds a single tweet line.
const maxLineBytes = 16 * 1024 * 1024

// ResolveInputs returns the files a run should read. A non-empty inputFile
// wins over inputDir and must name an existing regular file. Otherwise all
// tweet files in inputDir are returned in lexical order.
func ResolveInputs(inputFile, inputDir string) ([]string, error) {
	if inputFile != "" {
		info, err := os.Stat(inputFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputFile)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", inputFile, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("input %s is not a regular file", inputFile)
		}
		return []string{inputFile}, nil
	}

	if inputDir == "" {
		inputDir = DefaultInputDir
	}
	info, err := os.Stat(inputDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat input directory %s: %w", inputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory %s is not a directory", inputDir)
	}

	var files []string
	for _, pattern := range inputPatterns {
		matches, err := filepath.Glob(filepath.Join(inputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s files: %w", pattern, err)
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, inputDir)
	}
	sort.Strings(files)
	return files, nil
}

// openInput opens path for reading, decompressing .gz files.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip: %w", err)
	}
	return &gzipFile{Reader: gz, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// newLineScanner returns a scanner that accepts lines up to maxLineBytes.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return scanner
}

package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	TextOutputName   = "ft1.txt"
	DegreeOutputName = "ft2.txt"
)

// stagedFile is written under a temporary name and renamed into place on commit.
type stagedFile struct {
	final string
	file  *os.File
	w     *bufio.Writer
}

func newStagedFile(dir, name string) (*stagedFile, error) {
	f, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output %s: %w", name, err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to set mode on output %s: %w", name, err)
	}
	return &stagedFile{
		final: filepath.Join(dir, name),
		file:  f,
		w:     bufio.NewWriter(f),
	}, nil
}

func (s *stagedFile) commit() error {
	if err := s.w.Flush(); err != nil {
		s.abort()
		return fmt.Errorf("failed to flush %s: %w", s.final, err)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to close %s: %w", s.final, err)
	}
	if err := os.Rename(s.file.Name(), s.final); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to move output into %s: %w", s.final, err)
	}
	return nil
}

func (s *stagedFile) abort() {
	s.file.Close()
	os.Remove(s.file.Name())
}

// outputSet holds the ft1/ft2 pair for one run.
type outputSet struct {
	text   *stagedFile
	degree *stagedFile
}

// openOutputs creates the output directory if needed and stages both outputs
// inside it so the final rename never crosses filesystems.
func openOutputs(dir string) (*outputSet, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	text, err := newStagedFile(dir, TextOutputName)
	if err != nil {
		return nil, err
	}
	degree, err := newStagedFile(dir, DegreeOutputName)
	if err != nil {
		text.abort()
		return nil, err
	}
	return &outputSet{text: text, degree: degree}, nil
}

func (o *outputSet) writeText(line string) error {
	_, err := o.text.w.WriteString(line)
	return err
}

func (o *outputSet) writeDegree(line string) error {
	_, err := o.degree.w.WriteString(line)
	return err
}

// commit renames both outputs into place. If the second rename fails the
// first output has already been replaced; the error is still reported.
func (o *outputSet) commit() error {
	if err := o.text.commit(); err != nil {
		o.degree.abort()
		return err
	}
	return o.degree.commit()
}

func (o *outputSet) abort() {
	o.text.abort()
	o.degree.abort()
}

// checkWritable fails early when dir exists but is not a directory.
func checkWritable(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}

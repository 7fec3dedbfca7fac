// Package capture saves viewport snapshots to disk.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Saver writes timestamped PNG snapshots into an output directory.
type Saver struct {
	outputDir string
	prefix    string
}

// NewSaver creates a saver. An empty outputDir writes into the working
// directory.
func NewSaver(outputDir, prefix string) *Saver {
	return &Saver{outputDir: outputDir, prefix: prefix}
}

// Save encodes the image as PNG under a timestamped name and returns
// the path written.
func (s *Saver) Save(img image.Image) (string, error) {
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name := fmt.Sprintf("%s_%s.png", s.prefix, time.Now().Format("2006-01-02_15-04-05"))
	if s.outputDir != "" {
		name = filepath.Join(s.outputDir, name)
	}

	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, nil
}

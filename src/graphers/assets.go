package graphers

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
)

// LoadSymbolFont parses a TTF file for symbol-capable tick labels (the emoji
// chart). Registering it is an explicit configuration step the caller performs
// before rendering; there is no implicit process-wide font side effect.
func LoadSymbolFont(path string) (*truetype.Font, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbol font: %w", err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse symbol font %s: %w", path, err)
	}
	return f, nil
}

// loadWordList reads a newline-delimited token list, lowercased and trimmed.
func loadWordList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	out := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w != "" {
			out[w] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return out, nil
}

// loadStickerImage decodes one sticker image by filename under assetDir.
// A missing or undecodable file is fatal to the sticker chart.
func loadStickerImage(assetDir, name string) (image.Image, error) {
	path := filepath.Join(assetDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sticker %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sticker %s: %w", path, err)
	}
	return img, nil
}

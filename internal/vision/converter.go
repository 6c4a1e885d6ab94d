// Package vision rasterizes PDFs that have no usable text layer into ordered
// page images for the model's vision path.
package vision

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dealdesk/internal/domain"
)

// Config controls rasterization.
type Config struct {
	PdftoppmPath string
	DPI          int // render scale; high enough to keep small print legible
	MaxPages     int // pages beyond this cap are dropped, never rendered into output
}

// Converter renders PDF pages to PNG images via pdftoppm.
type Converter struct {
	runner Runner
	cfg    Config
}

// NewConverter creates a Converter. Zero-valued config fields get defaults.
func NewConverter(runner Runner, cfg Config) *Converter {
	if cfg.PdftoppmPath == "" {
		cfg.PdftoppmPath = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	return &Converter{runner: runner, cfg: cfg}
}

// Rasterize renders the pages of a PDF as ordered RasterPages, capped at
// MaxPages. A total rasterization failure is returned as a ConversionError;
// it is fatal for that one document only.
func (c *Converter) Rasterize(ctx context.Context, pdfBytes []byte, filename string) ([]domain.RasterPage, error) {
	tmpDir, err := os.MkdirTemp("", "dealdesk-raster-*")
	if err != nil {
		return nil, domain.NewConversionError(filename, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("vision.Converter: failed to remove temp dir %q: %v", tmpDir, err)
		}
	}()

	inPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(inPath, pdfBytes, 0o600); err != nil {
		return nil, domain.NewConversionError(filename, err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -l <maxPages> -png <in.pdf> <tmp/page>
	// -l stops rendering at the page cap instead of rasterizing the whole file.
	_, errb, err := c.runner.Run(ctx, c.cfg.PdftoppmPath,
		"-r", strconv.Itoa(c.cfg.DPI),
		"-l", strconv.Itoa(c.cfg.MaxPages),
		"-png", inPath, prefix)
	if err != nil {
		return nil, domain.NewConversionError(filename, fmt.Errorf("pdftoppm: %w (%s)", err, string(errb)))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sortPages(matches)
	if len(matches) == 0 {
		return nil, domain.NewConversionError(filename, fmt.Errorf("pdftoppm produced no images"))
	}
	if len(matches) > c.cfg.MaxPages {
		log.Printf("vision.Converter: %s has %d pages, dropping %d beyond cap %d",
			filename, len(matches), len(matches)-c.cfg.MaxPages, c.cfg.MaxPages)
		matches = matches[:c.cfg.MaxPages]
	}

	pages := make([]domain.RasterPage, 0, len(matches))
	for i, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("vision.Converter: skipping unreadable page %s: %v", path, err)
			continue
		}
		pages = append(pages, domain.RasterPage{
			PageNumber:  i + 1,
			ImageBytes:  data,
			MediaType:   "image/png",
			RenderScale: c.cfg.DPI,
		})
	}
	if len(pages) == 0 {
		return nil, domain.NewConversionError(filename, fmt.Errorf("no rendered pages readable"))
	}
	return pages, nil
}

// sortPages orders pdftoppm output numerically by trailing page number;
// lexicographic order breaks past page 9 when pdftoppm does not zero-pad.
func sortPages(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return pageNum(paths[i]) < pageNum(paths[j])
	})
}

func pageNum(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, _ := strconv.Atoi(base[i:])
	return n
}

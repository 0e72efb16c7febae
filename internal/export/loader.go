package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/parquet-go/parquet-go"
)

// Loader reads exported structural elements back from disk.
type Loader struct {
	path string
}

// NewLoader creates a loader for a .parquet, .jsonl or .json export.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads all elements.
func (l *Loader) Load() ([]models.StructuralElement, error) {
	return l.LoadSample(0)
}

// LoadSample reads at most limit elements. A limit of 0 or less reads all.
func (l *Loader) LoadSample(limit int) ([]models.StructuralElement, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".jsonl":
		return l.loadJSONL(limit)
	case ".json":
		return l.loadJSON(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .json)", ext)
	}
}

func (l *Loader) loadJSONL(limit int) ([]models.StructuralElement, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	var elements []models.StructuralElement
	scanner := bufio.NewScanner(file)

	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(elements) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var el models.StructuralElement
		if err := json.Unmarshal(line, &el); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		elements = append(elements, el)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading export: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_elements", len(elements), "total_lines", lineNum)
	return elements, nil
}

func (l *Loader) loadJSON(limit int) ([]models.StructuralElement, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}

	var elements []models.StructuralElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if limit > 0 && len(elements) > limit {
		elements = elements[:limit]
	}
	return elements, nil
}

func (l *Loader) loadParquet(limit int) ([]models.StructuralElement, error) {
	slog.Debug("Opening Parquet file", "path", l.path, "limit", limit)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.StructuralElement](pf)
	defer reader.Close()

	var elements []models.StructuralElement
	rows := make([]models.StructuralElement, 128)

	for limit <= 0 || len(elements) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit > 0 && n > limit-len(elements) {
				n = limit - len(elements)
			}
			elements = append(elements, rows[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_elements", len(elements))
	return elements, nil
}

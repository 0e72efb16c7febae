// Package export writes resolved structural elements to files and streams,
// and reads exported files back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// Formats lists the stream formats accepted by Write.
var Formats = []string{"text", "json", "jsonl", "yaml"}

// Record is the YAML document written for a record.
type Record struct {
	Identifier string                     `yaml:"identifier"`
	Source     string                     `yaml:"source,omitempty"`
	Elements   []models.StructuralElement `yaml:"elements"`
}

// Write renders elements in the given stream format.
func Write(w io.Writer, format string, elements []models.StructuralElement) error {
	switch strings.ToLower(format) {
	case "", "text":
		return writeText(w, elements)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if elements == nil {
			elements = []models.StructuralElement{}
		}
		if err := enc.Encode(elements); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "jsonl":
		enc := json.NewEncoder(w)
		for i := range elements {
			if err := enc.Encode(&elements[i]); err != nil {
				return fmt.Errorf("failed to encode JSON line %d: %w", i+1, err)
			}
		}
		return nil
	case "yaml":
		return WriteYAML(w, Record{Elements: elements})
	default:
		return fmt.Errorf("unsupported output format: %s (supported: %s, parquet)", format, strings.Join(Formats, ", "))
	}
}

// WriteYAML marshals a record document.
func WriteYAML(w io.Writer, rec Record) error {
	if rec.Elements == nil {
		rec.Elements = []models.StructuralElement{}
	}
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}

// WriteParquet writes elements to a parquet file at path, creating parent
// directories as needed.
func WriteParquet(path string, elements []models.StructuralElement) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[models.StructuralElement](file)
	if _, err := writer.Write(elements); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	absPath, _ := filepath.Abs(path)
	slog.Debug("Wrote parquet file", "path", absPath, "rows", len(elements))
	return nil
}

func writeText(w io.Writer, elements []models.StructuralElement) error {
	for i, el := range elements {
		var b strings.Builder
		fmt.Fprintf(&b, "[%d] %s", i+1, el.Identifiers.LogicalID)
		if el.Type != "" {
			fmt.Fprintf(&b, " (%s)", el.Type)
		}
		b.WriteString("\n")
		field(&b, "Title", el.Title)
		field(&b, "Subtitle", el.SubTitle)
		if len(el.Authors) > 0 {
			field(&b, "Authors", strings.Join(el.Authors, "; "))
		}
		field(&b, "Language", LanguageName(el.Language))
		field(&b, "Pages", el.PageLabel)
		field(&b, "Abstract", el.Abstract)
		if len(el.Identifiers.PhysicalIDs) > 0 {
			field(&b, "Physical", strings.Join(el.Identifiers.PhysicalIDs, ", "))
		}
		b.WriteString("\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write element %s: %w", el.Identifiers.LogicalID, err)
		}
	}
	return nil
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    %-9s %s\n", label+":", value)
}

// LanguageName renders a MODS language code as "English (eng)". Codes that do
// not parse are returned unchanged.
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

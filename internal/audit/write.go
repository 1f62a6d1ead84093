package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Encode writes v as indented JSON, or as YAML when format is "yaml".
// Non-ASCII text is written as is.
func Encode(w io.Writer, v any, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// FormatFor picks the encoding from the file extension of path.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// WriteReport writes rep to path, creating parent directories.
func WriteReport(fs afero.Fs, path string, rep Report) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return xerrors.Errorf("creating report directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatFor(path)); err != nil {
		return xerrors.Errorf("encoding report: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return xerrors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

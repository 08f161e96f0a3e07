package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/younsl/iamaudit/internal/models"
	"github.com/younsl/iamaudit/pkg/utils"
)

// Artifacts are the files written for one run
type Artifacts struct {
	HTMLPath string
	JSONPath string
}

// Files returns the artifact paths, HTML first
func (a Artifacts) Files() []string {
	return []string{a.HTMLPath, a.JSONPath}
}

// RenderError is a failure to produce a report artifact
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// BaseName returns the shared artifact name, iam_audit_YYYYMMDD_HHMMSS
func BaseName(snap models.FindingsSnapshot) string {
	return "iam_audit_" + utils.FileTimestamp(snap.GeneratedAt)
}

// Write renders snap into outputDir as HTML and JSON, creating the directory
// if needed. Both files share the base name derived from GeneratedAt.
func Write(snap models.FindingsSnapshot, outputDir string) (Artifacts, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Artifacts{}, &RenderError{Path: outputDir, Err: err}
	}

	base := filepath.Join(outputDir, BaseName(snap))
	artifacts := Artifacts{
		HTMLPath: base + ".html",
		JSONPath: base + ".json",
	}

	if err := writeFile(artifacts.HTMLPath, func(w io.Writer) error { return RenderHTML(w, snap) }); err != nil {
		return Artifacts{}, err
	}
	if err := writeFile(artifacts.JSONPath, func(w io.Writer) error { return EncodeJSON(w, snap) }); err != nil {
		return Artifacts{}, err
	}
	return artifacts, nil
}

// writeFile renders into memory first so a failed render leaves no partial file
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	return nil
}

package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
)

// sourcePatterns lists the ingestable file types, in discovery order.
var sourcePatterns = []string{
	"**/*.md",
	"**/*.txt",
	"**/*.pdf",
}

// DiscoverFiles returns the paths of all ingestable files under root,
// relative to root. Each pattern's matches come back in lexical order, so
// discovery is deterministic across runs.
func DiscoverFiles(root string) ([]string, error) {
	var files []string
	for _, pattern := range sourcePatterns {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// ReadFileContent extracts the text of one source file. PDF content is
// converted to plain text, every other supported extension is read verbatim.
func ReadFileContent(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

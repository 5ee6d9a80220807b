package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"golang.org/x/text/unicode/norm"
)

// ErrUnavailable wraps every failure to obtain or decode an input document.
var ErrUnavailable = errors.New("source: document unavailable")

// Block is one paragraph or one table grid, in document order.
type Block struct {
	Text string     `json:"text,omitempty"`
	Rows [][]string `json:"table,omitempty"`
}

func (b Block) IsTable() bool { return b.Rows != nil }

type Document struct {
	Name   string
	Blocks []Block
}

// FromParagraphs builds a document from plain paragraph strings.
func FromParagraphs(name string, paragraphs []string) Document {
	blocks := make([]Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		blocks = append(blocks, Block{Text: clean(p)})
	}
	return Document{Name: name, Blocks: blocks}
}

// Decode parses raw content according to the extension of name.
// A trailing ".br" means brotli-compressed content of the inner format.
func Decode(name string, raw []byte) (Document, error) {
	raw, inner, err := Decompress(name, raw)
	if err != nil {
		return Document{}, err
	}

	switch ext := strings.ToLower(path.Ext(inner)); ext {
	case ".json":
		blocks, err := decodeJSON(raw)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
		}
		return Document{Name: name, Blocks: blocks}, nil
	case ".txt", "":
		return FromParagraphs(name, strings.Split(string(raw), "\n")), nil
	default:
		return Document{}, fmt.Errorf("%w: %s: unsupported format %q", ErrUnavailable, name, ext)
	}
}

// Decompress undoes a trailing ".br" and returns the inner name. Other
// content is returned unchanged.
func Decompress(name string, raw []byte) ([]byte, string, error) {
	if strings.ToLower(path.Ext(name)) != ".br" {
		return raw, name, nil
	}
	data, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: brotli: %v", ErrUnavailable, name, err)
	}
	return data, strings.TrimSuffix(name, path.Ext(name)), nil
}

type jsonDoc struct {
	Paragraphs []string `json:"paragraphs"`
	Blocks     []Block  `json:"blocks"`
}

func decodeJSON(raw []byte) ([]Block, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ps []string
		if err := json.Unmarshal(trimmed, &ps); err != nil {
			return nil, fmt.Errorf("decode paragraph array: %w", err)
		}
		return FromParagraphs("", ps).Blocks, nil
	}

	var doc jsonDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Blocks == nil {
		return FromParagraphs("", doc.Paragraphs).Blocks, nil
	}
	out := make([]Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.IsTable() {
			rows := make([][]string, len(b.Rows))
			for i, r := range b.Rows {
				rows[i] = make([]string, len(r))
				for j, c := range r {
					rows[i][j] = cleanCell(c)
				}
			}
			out = append(out, Block{Rows: rows})
			continue
		}
		out = append(out, Block{Text: clean(b.Text)})
	}
	return out, nil
}

var spaceFolder = strings.NewReplacer("\r", "", "\t", " ", "\u00a0", " ")

func clean(s string) string {
	return strings.TrimSpace(spaceFolder.Replace(norm.NFC.String(s)))
}

// cells keep their inner newlines; each line is cleaned on its own.
func cleanCell(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = clean(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/geom"
)

// Format identifies a diagram file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported diagram encodings.
var Formats = []string{string(FormatJSON), string(FormatYAML), string(FormatTOML)}

var formatByExt = map[string]Format{
	".json": FormatJSON,
	".yml":  FormatYAML,
	".yaml": FormatYAML,
	".toml": FormatTOML,
}

// FormatFromPath picks the diagram encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported diagram file %q: extension must be .json, .yml, .yaml or .toml", filepath.Base(path))
}

type document struct {
	Name      string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Processes []process `json:"processes" yaml:"processes" toml:"processes"`
}

type process struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	Name   string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// ReadDiagram decodes a diagram snapshot from r in the given format and
// validates it. ReadDiagram does not close r.
func ReadDiagram(r io.Reader, format Format) (*diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read diagram")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "diagram is empty")
	}

	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported diagram format %q: must be one of: %s", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s diagram", format)
	}

	d := doc.toDiagram()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ImportDiagram reads the diagram file at path. The format follows the file
// extension, and a file without a name field is named after the file.
func ImportDiagram(path string) (*diagram.Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	d, err := ReadDiagram(f, format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

func (doc document) toDiagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Name:      doc.Name,
		Processes: make([]diagram.Process, len(doc.Processes)),
	}
	for i, p := range doc.Processes {
		d.Processes[i] = diagram.Process{
			ID:     p.ID,
			Name:   p.Name,
			Bounds: geom.R(p.X, p.Y, p.Width, p.Height),
		}
	}
	return d
}

// WriteDiagram encodes d as JSON in the diagram file schema.
func WriteDiagram(d *diagram.Diagram, w io.Writer) error {
	doc := document{Name: d.Name, Processes: make([]process, len(d.Processes))}
	for i, p := range d.Processes {
		doc.Processes[i] = process{
			ID:     p.ID,
			Name:   p.Name,
			X:      p.Bounds.X,
			Y:      p.Bounds.Y,
			Width:  p.Bounds.Width,
			Height: p.Bounds.Height,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode diagram")
	}
	return nil
}

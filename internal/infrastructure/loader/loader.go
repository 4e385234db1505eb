package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
)

// Format formato de archivo de factura.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat extensión de archivo no reconocida.
var ErrUnsupportedFormat = errors.New("formato de archivo no soportado")

// FormatFromPath deduce el formato a partir de la extensión.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load lee una factura desde archivo. El formato sale de la extensión.
func Load(path string) (dto.CalculateInvoiceRequest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return dto.CalculateInvoiceRequest{}, err
	}
	if format == FormatXLSX {
		return LoadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return dto.CalculateInvoiceRequest{}, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	in, err := Decode(f, format)
	if err != nil {
		return dto.CalculateInvoiceRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Decode lee una factura YAML o JSON. Los campos desconocidos son error.
func Decode(r io.Reader, format Format) (dto.CalculateInvoiceRequest, error) {
	var in dto.CalculateInvoiceRequest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return in, err
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, err
		}
	default:
		return in, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return in, nil
}

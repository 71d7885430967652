package layout

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/place"
	"github.com/matzehuels/stowage/pkg/scene"
)

// =============================================================================
// Formats
// =============================================================================

// Format is a request encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"

	// FormatMsgpack is accepted on the HTTP API only.
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported request format %q", filepath.Ext(path))
}

// =============================================================================
// Request
// =============================================================================

// Request is a decoded layout request. Numeric fields are kept raw and
// normalized later, so any shape an upstream tool emits is accepted.
type Request struct {
	Container any           `json:"container" yaml:"container" toml:"container" msgpack:"container"`
	Items     []RequestItem `json:"items" yaml:"items" toml:"items" msgpack:"items"`
}

// RequestItem is one item entry in a Request.
type RequestItem struct {
	Name       string `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Dimensions any    `json:"dimensions" yaml:"dimensions" toml:"dimensions" msgpack:"dimensions"`
	Position   any    `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty" msgpack:"position,omitempty"`
	Quantity   any    `json:"quantity,omitempty" yaml:"quantity,omitempty" toml:"quantity,omitempty" msgpack:"quantity,omitempty"`
}

// ContainerSpec normalizes the request's container. The error lists
// replaced dimensions and never invalidates the result.
func (r Request) ContainerSpec() (scene.Container, error) {
	c, err := scene.NormalizeContainer(r.Container)
	if err != nil {
		return c, fmt.Errorf("container: %w", err)
	}
	return c, nil
}

// PlaceItems normalizes every item. The error joins all coercion notes and
// never invalidates the result.
func (r Request) PlaceItems() ([]place.Item, error) {
	items := make([]place.Item, len(r.Items))
	var errs []error
	for i, ri := range r.Items {
		name := ri.Name
		if name == "" {
			name = fmt.Sprintf("item-%d", i+1)
		}
		it, err := place.NewItem(name, ri.Dimensions, ri.Position, Quantity(ri.Quantity))
		if err != nil {
			errs = append(errs, fmt.Errorf("item %q: %w", name, err))
		}
		items[i] = it
	}
	return items, stderrors.Join(errs...)
}

// Quantity coerces a raw quantity. Missing or non-numeric values count as 1
// and fractions are truncated.
func Quantity(raw any) int {
	f, ok := geom.Float(raw)
	if !ok || f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// =============================================================================
// Decoding
// =============================================================================

// ReadRequest decodes a request in the given format from r.
// ReadRequest does not close r.
func ReadRequest(r io.Reader, format Format) (Request, error) {
	var req Request
	var err error
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&req)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&req)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&req)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&req)
	default:
		return Request{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported request format %q", format)
	}
	if err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode %s request", format)
	}
	return req, nil
}

// ReadRequestFile reads a request file, choosing the decoder from its
// extension.
func ReadRequestFile(path string) (Request, error) {
	if err := errors.ValidateRequestFilename(path); err != nil {
		return Request{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Request{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Request{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Request{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRequest(f, format)
}

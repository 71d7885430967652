package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/diag"
	"github.com/matzehuels/stowage/pkg/geom"
	"github.com/matzehuels/stowage/pkg/place"
	"github.com/matzehuels/stowage/pkg/scene"
)

// =============================================================================
// Layout - Renderer-Facing Format
// =============================================================================

// Layout is the result of one layout pass.
//
// Boxes are in placement order. Center positions are scene units with the
// container centered on X/Z and its floor at Y = 0. Origin and Dims are in
// meters relative to the container's min corner.
type Layout struct {
	ID          string                `json:"id" msgpack:"id"`
	Container   scene.Container       `json:"container" msgpack:"container"`
	Scale       scene.ScaleParams     `json:"scale" msgpack:"scale"`
	Strategy    string                `json:"strategy" msgpack:"strategy"`
	Boxes       []Box                 `json:"boxes" msgpack:"boxes"`
	Annotations []annotate.Annotation `json:"annotations" msgpack:"annotations"`
	Overlaps    []diag.Pair           `json:"overlaps,omitempty" msgpack:"overlaps,omitempty"`
	Stats       Stats                 `json:"stats" msgpack:"stats"`
}

// Box is one placed item instance.
type Box struct {
	Name        string      `json:"name" msgpack:"name"`
	Item        int         `json:"item" msgpack:"item"`         // index into the request's items
	Instance    int         `json:"instance" msgpack:"instance"` // copy number within the item's quantity
	Origin      geom.Point3 `json:"origin" msgpack:"origin"`
	Dims        geom.Dims   `json:"dims" msgpack:"dims"`
	Center      geom.Point3 `json:"center" msgpack:"center"`
	RenderSize  geom.Dims   `json:"render_size" msgpack:"render_size"`
	Color       string      `json:"color" msgpack:"color"`
	Overlapping bool        `json:"overlapping,omitempty" msgpack:"overlapping,omitempty"`
}

// Stats summarizes a layout.
type Stats struct {
	Items           int     `json:"items" msgpack:"items"`         // item entries in the request
	Instances       int     `json:"instances" msgpack:"instances"` // after quantity expansion
	Placed          int     `json:"placed" msgpack:"placed"`
	Dropped         int     `json:"dropped" msgpack:"dropped"`
	Overlaps        int     `json:"overlaps" msgpack:"overlaps"`
	ItemVolume      float64 `json:"item_volume" msgpack:"item_volume"` // cubic meters, placed items only
	ContainerVolume float64 `json:"container_volume" msgpack:"container_volume"`
	FillRatio       float64 `json:"fill_ratio" msgpack:"fill_ratio"`
}

// Assemble builds a Layout from a placement result.
func Assemble(c scene.Container, s scene.ScaleParams, items int, res place.Result, notes []annotate.Annotation, pairs []diag.Pair) Layout {
	hit := diag.Involved(pairs)
	l := Layout{
		Container:   c,
		Scale:       s,
		Strategy:    res.Strategy,
		Boxes:       make([]Box, len(res.Placed)),
		Annotations: notes,
		Overlaps:    pairs,
	}

	var vol float64
	for i, p := range res.Placed {
		l.Boxes[i] = Box{
			Name:        p.Name,
			Item:        p.Index,
			Instance:    p.Instance,
			Origin:      p.Origin,
			Dims:        p.Dims,
			Center:      p.Center,
			RenderSize:  p.RenderSize,
			Color:       p.Color,
			Overlapping: hit[i],
		}
		vol += p.Dims.Volume()
	}

	l.Stats = Stats{
		Items:           items,
		Instances:       res.Instances,
		Placed:          len(res.Placed),
		Dropped:         res.Dropped,
		Overlaps:        len(pairs),
		ItemVolume:      vol,
		ContainerVolume: c.Volume(),
	}
	if l.Stats.ContainerVolume > 0 {
		l.Stats.FillRatio = vol / l.Stats.ContainerVolume
	}
	return l
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// MarshalMsgpack serializes a Layout to msgpack.
func MarshalMsgpack(l Layout) ([]byte, error) {
	return msgpack.Marshal(l)
}

// UnmarshalMsgpack deserializes msgpack bytes into a Layout.
func UnmarshalMsgpack(data []byte) (Layout, error) {
	var l Layout
	if err := msgpack.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

func (l Layout) validate() error {
	if l.Scale.SceneScale <= 0 {
		return fmt.Errorf("layout has no scene scale")
	}
	if l.Container.Length <= 0 || l.Container.Width <= 0 || l.Container.Height <= 0 {
		return fmt.Errorf("layout has an invalid container %+v", l.Container)
	}
	return nil
}

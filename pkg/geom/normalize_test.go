package geom

import (
	"encoding/json"
	"math"
	"testing"

	errs "github.com/matzehuels/stowage/pkg/errors"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"float32", float32(0.25), 0.25, true},
		{"int", 3, 3, true},
		{"int64", int64(-7), -7, true},
		{"uint8", uint8(9), 9, true},
		{"numeric string", " 2.75 ", 2.75, true},
		{"json number", json.Number("4.5"), 4.5, true},

		{"nil", nil, 0, false},
		{"text", "abc", 0, false},
		{"empty string", "", 0, false},
		{"bool", true, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"+Inf", math.Inf(1), 0, false},
		{"NaN string", "NaN", 0, false},
		{"slice", []any{1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Float(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	p := &Point3{X: 4, Y: 5, Z: 6}
	var nilPoint *Point3

	tests := []struct {
		name  string
		input any
		want  Point3
	}{
		{"nil", nil, Point3{}},
		{"any slice", []any{1.0, 2.0, 3.0}, Point3{1, 2, 3}},
		{"float slice", []float64{0.5, 0, 1.25}, Point3{0.5, 0, 1.25}},
		{"int array", [3]int{1, 2, 3}, Point3{1, 2, 3}},
		{"long slice", []any{1, 2, 3, 4}, Point3{1, 2, 3}},
		{"short slice", []any{1, 2}, Point3{}},
		{"empty slice", []any{}, Point3{}},
		{"non-numeric element", []any{"a", 2, nil}, Point3{0, 2, 0}},
		{"string elements", []any{"1.5", "2", "x"}, Point3{1.5, 2, 0}},
		{"named keys", map[string]any{"x": 1, "y": 2, "z": 3}, Point3{1, 2, 3}},
		{"indexed string keys", map[string]any{"0": 1, "1": 2, "2": 3}, Point3{1, 2, 3}},
		{"indexed int keys", map[int]float64{0: 7, 1: 8, 2: 9}, Point3{7, 8, 9}},
		{"any keys", map[any]any{"x": 1, 1: 2, "2": 3}, Point3{1, 2, 3}},
		{"named wins over indexed", map[string]any{"x": 1, "0": 99, "y": 2, "z": 3}, Point3{1, 2, 3}},
		{"nil named falls back", map[string]any{"x": nil, "0": 5}, Point3{5, 0, 0}},
		{"partial map", map[string]any{"y": 2}, Point3{0, 2, 0}},
		{"non-numeric named", map[string]any{"x": "abc", "0": 5}, Point3{0, 0, 0}},
		{"point value", Point3{1, 2, 3}, Point3{1, 2, 3}},
		{"point pointer", p, Point3{4, 5, 6}},
		{"nil point pointer", nilPoint, Point3{}},
		{"string", "1,2,3", Point3{}},
		{"number", 42, Point3{}},
		{"struct", struct{ X float64 }{1}, Point3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePosition(tt.input); got != tt.want {
				t.Errorf("ParsePosition(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePositionReportsCoercion(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{"nil is silent", nil, false},
		{"clean slice", []any{1, 2, 3}, false},
		{"clean map", map[string]any{"x": 1, "y": 2, "z": 3}, false},
		{"short slice", []any{1}, true},
		{"missing component", map[string]any{"x": 1, "y": 2}, true},
		{"non-numeric", []any{1, "two", 3}, true},
		{"unsupported type", "here", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePosition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePosition(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestParseDims(t *testing.T) {
	eps := Dims{MinDim, MinDim, MinDim}

	tests := []struct {
		name     string
		input    any
		fallback Dims
		want     Dims
	}{
		{"nil", nil, eps, eps},
		{"long keys", map[string]any{"length": 1, "width": 2, "height": 3}, eps, Dims{1, 2, 3}},
		{"short keys", map[string]any{"l": 1, "w": 2, "h": 3}, eps, Dims{1, 2, 3}},
		{"indexed keys", map[string]any{"0": 1, "1": 2, "2": 3}, eps, Dims{1, 2, 3}},
		{"long wins over short", map[string]any{"length": 1, "l": 9, "width": 2, "height": 3}, eps, Dims{1, 2, 3}},
		{"sequence", []any{0.4, 0.3, 0.2}, eps, Dims{0.4, 0.3, 0.2}},
		{"short sequence", []any{0.4}, eps, Dims{0.4, MinDim, MinDim}},
		{"zero", map[string]any{"length": 0, "width": 2, "height": 3}, eps, Dims{MinDim, 2, 3}},
		{"negative", []any{-1, -2, 3}, eps, Dims{MinDim, MinDim, 3}},
		{"non-numeric", map[string]any{"length": "big", "width": 2, "height": 3}, eps, Dims{MinDim, 2, 3}},
		{"numeric strings", map[string]any{"length": "1.2", "width": "0.8", "height": "1"}, eps, Dims{1.2, 0.8, 1}},
		{"typed", Dims{1, 2, 3}, eps, Dims{1, 2, 3}},
		{"typed with zero", &Dims{1, 0, 3}, eps, Dims{1, MinDim, 3}},
		{"container fallback", map[string]any{"width": 3}, Dims{2, 1.5, 1.5}, Dims{2, 3, 1.5}},
		{"unsupported", true, eps, eps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDims(tt.input, tt.fallback); got != tt.want {
				t.Errorf("ParseDims(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDimsReportsCoercion(t *testing.T) {
	eps := Dims{MinDim, MinDim, MinDim}

	if _, err := NormalizeDims([]any{1, 2, 3}, eps); err != nil {
		t.Errorf("clean dims should not report: %v", err)
	}
	if _, err := NormalizeDims(map[string]any{"length": 1, "width": 2}, eps); err == nil {
		t.Error("missing height should report")
	}
	if _, err := NormalizeDims([]any{1, 0, 3}, eps); err == nil {
		t.Error("zero width should report")
	}
	if _, err := NormalizeDims(nil, eps); err == nil {
		t.Error("nil dims should report")
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := []any{
		nil, 0, -1, "", "NaN", math.NaN(), math.Inf(-1), true,
		[]any{}, []any{nil, nil, nil}, []string{"a", "b", "c"},
		map[string]any{}, map[string]any{"x": []any{1}}, map[float64]any{0: 1},
		map[string]any{"length": map[string]any{}}, &struct{}{}, (*Dims)(nil),
		[]byte("abc"), func() {}, make(chan int),
	}
	for _, in := range inputs {
		p := ParsePosition(in)
		d := ParseDims(in, Dims{MinDim, MinDim, MinDim})
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("ParsePosition(%#v) produced non-finite %v", in, p)
			}
		}
		if d.Length <= 0 || d.Width <= 0 || d.Height <= 0 {
			t.Errorf("ParseDims(%#v) produced non-positive %v", in, d)
		}
	}
}

// Package layout provides the wire types for layout requests and results.
//
// This package sits at the serialization boundary. Inputs are decoded into a
// loosely-typed [Request] so the geometry core can normalize whatever shapes
// an upstream packer produced. Outputs are a [Layout], the renderer-facing
// format used for files, API responses and cache payloads.
//
// # Requests
//
// A request names a container and a list of items. Dimensions and positions
// may be arrays or objects, and numbers may be strings:
//
//	{
//	  "container": {"length": 12.03, "width": 2.35, "height": 2.39},
//	  "items": [
//	    {"name": "pallet", "dimensions": [1.2, 0.8, 1.5], "quantity": 10},
//	    {"name": "crate", "dimensions": {"l": 1, "w": 1, "h": 1}, "position": {"x": 4, "y": 0, "z": 0}}
//	  ]
//	}
//
// The same structure can be written in YAML or TOML. Use [ReadRequestFile]
// to pick the decoder from the file extension, or [ReadRequest] with an
// explicit [Format].
//
// # Layouts
//
// A [Layout] carries the normalized container, the scale, one [Box] per
// placed item instance, the dimension annotations, any overlap diagnostics
// and summary [Stats]. It is encoded as indented JSON with [MarshalLayout]
// or as msgpack with [MarshalMsgpack].
package layout

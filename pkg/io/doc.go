// Package io provides JSON import and export for enterprise hierarchies.
//
// # Overview
//
// The JSON format is the enterprise tree itself, exactly as the canvas and
// the HTTP API exchange it. It is designed for:
//
//   - Backing up and restoring the edited hierarchy, stored geometry included
//   - Moving data between installations and storage backends
//   - Round-trip preservation: import, edit, export, and re-import identically
//
// # JSON Format
//
//	{
//	  "id": "ent-001",
//	  "name": "Acme Manufacturing",
//	  "regions": [
//	    {
//	      "id": "reg-amer",
//	      "code": "AMER",
//	      "name": "Americas",
//	      "x": 50, "y": 50, "width": 350, "height": 500,
//	      "plants": [ ... ]
//	    }
//	  ]
//	}
//
// Geometry fields (x, y, width, height) are optional on regions, plants,
// areas and locations. A missing field means "use the layout default".
// Coordinates are relative to the parent node.
//
// # Import
//
// Use [ImportJSON] to read an enterprise from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	e, err := io.ImportJSON("enterprise_data_2024-05-01.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the hierarchy (non-empty ids, enterprise-wide id
// uniqueness, non-negative sizes) and fail with a coded error from
// [github.com/matzehuels/assetcanvas/pkg/errors] when it is broken.
//
// # Export
//
// Use [ExportJSON] to write an enterprise to a file, or [WriteJSON] to write
// to any io.Writer. [ExportFilename] returns the conventional download name
// for a given day.
//
// # Concurrency
//
// Enterprises are treated as immutable values. Functions in this package
// never modify their input and [ReadJSON] always returns a fresh tree.
package io

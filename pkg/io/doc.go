// Package io provides JSON import and export for generated galaxies.
//
// # Overview
//
// A galaxy document holds everything the engine produced: map dimensions,
// the seed, every star system with its planets and moons, the starting
// colonies, and the civilizations that took part. The format is used for:
//
//   - Saving a galaxy from the CLI and loading it again for rendering
//   - Cache payloads in [github.com/matzehuels/stargen/pkg/cache]
//   - API responses of the HTTP server
//
// # JSON Format
//
// Enumerations are written by name:
//
//	{
//	  "format": "stargen/galaxy",
//	  "version": 1,
//	  "width": 40,
//	  "height": 30,
//	  "seed": 42,
//	  "shape": "irregular",
//	  "systems": [
//	    {
//	      "id": 0,
//	      "name": "Vega",
//	      "location": {"x": 3, "y": 1},
//	      "star_type": "Yellow",
//	      "planets": [{"index": 0, "name": "Vega I", "size": "Small", "type": "Barren"}]
//	    }
//	  ],
//	  "colonies": [],
//	  "civilizations": []
//	}
//
// # Import
//
// [ReadJSON] and [ImportJSON] validate the document and rebuild the sector
// grid, so an imported galaxy answers location queries like a freshly
// generated one. Two systems on one cell, a system off the map, or a
// wormhole whose destination is not a wormhole are rejected.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write indented JSON. Import followed by
// export reproduces the document.
package io

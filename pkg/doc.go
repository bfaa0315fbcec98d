// Package pkg provides the core libraries for stargen galaxy generation.
//
// # Overview
//
// Stargen builds playable galaxy maps: a rectangular grid of sectors holding
// star systems, their planets and moons, the homeworlds of the competing
// civilizations, and paired wormholes. The pkg directory is organized into
// three main areas:
//
//  1. [core] - Domain logic (layouts, sampling, composition, placement)
//  2. [pipeline] - Orchestration (validate → generate with retry → cache)
//  3. Infrastructure: [cache], [store], [io], [render], [observability]
//
// # Architecture
//
// The data flow of one generation attempt:
//
//	Options
//	   ↓
//	[core/layout] (star locations by shape, spaced apart via [core/spatial])
//	   ↓
//	[core/homeworld] (one homeworld per empire, then minor races)
//	   ↓
//	[core/compose] (star types, planets, moons from [core/tables])
//	   ↓
//	[core/wormhole] (pair wormholes, link endpoints)
//	   ↓
//	[core/galaxy] Galaxy (committed, sector grid built)
//
// A homeworld that cannot be placed discards the attempt; the pipeline
// retries from a fresh layout up to Options.MaxAttempts times.
//
// # Quick Start
//
//	opts := pipeline.Options{Size: "medium", Shape: "spiral", Seed: 42}
//	res, err := pipeline.NewRunner(nil, nil, nil).Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg, err := starmap.SVG(res.Galaxy, starmap.Options{Labels: true})
//
// [core]: github.com/matzehuels/stargen/pkg/core
// [pipeline]: github.com/matzehuels/stargen/pkg/pipeline
// [cache]: github.com/matzehuels/stargen/pkg/cache
// [store]: github.com/matzehuels/stargen/pkg/store
// [io]: github.com/matzehuels/stargen/pkg/io
// [render]: github.com/matzehuels/stargen/pkg/render
// [observability]: github.com/matzehuels/stargen/pkg/observability
// [core/layout]: github.com/matzehuels/stargen/pkg/core/layout
// [core/spatial]: github.com/matzehuels/stargen/pkg/core/spatial
// [core/homeworld]: github.com/matzehuels/stargen/pkg/core/homeworld
// [core/compose]: github.com/matzehuels/stargen/pkg/core/compose
// [core/tables]: github.com/matzehuels/stargen/pkg/core/tables
// [core/wormhole]: github.com/matzehuels/stargen/pkg/core/wormhole
// [core/galaxy]: github.com/matzehuels/stargen/pkg/core/galaxy
package pkg

// Package pkg provides the core libraries for OCIF canvas layout.
//
// # Overview
//
// ocif-layout reads Open Canvas Interchange Format documents and resolves
// positions for their nodes with a force-directed simulation. The pkg
// directory is organized around that flow:
//
//  1. [ocif] - Document model with open attribute preservation
//  2. [layout] - Force-directed positioning engine
//  3. [pipeline] - Orchestration (import → layout → export) with caching
//  4. [cache] / [store] - Infrastructure (layout result cache, document persistence)
//
// # Architecture
//
// The typical data flow:
//
//	OCIF document (file or HTTP body)
//	         ↓
//	    [ocif] package (decode, preserve unknown members)
//	         ↓
//	    [layout] package (seed → simulate → derive arrows → normalize)
//	         ↓
//	    [ocif] package (encode)
//
// # Quick Start
//
// Lay out a document:
//
//	import (
//	    "github.com/devhelpr/ocif-generator/pkg/layout"
//	    "github.com/devhelpr/ocif-generator/pkg/ocif"
//	)
//
//	doc, _ := ocif.ImportFile("canvas.json")
//	engine := layout.New(layout.Config{CanvasWidth: 1600, CanvasHeight: 900})
//	_ = engine.Layout(doc)
//	_ = ocif.ExportFile(doc, "canvas.layout.json")
//
// Or run the cached pipeline shared by the CLI and HTTP API:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, "canvas.json", "canvas.layout.json", pipeline.Options{})
//
// # Main Packages
//
// [ocif] - Document, node, and relation types with custom JSON codecs
// that round-trip unrecognized members byte-for-byte, plus the arrow and
// edge extension markers the engine interprets.
//
// [layout] - The force-directed engine: random seeding of missing
// positions, repulsion/attraction/gravity forces with per-step clamping,
// arrow endpoint derivation, and shrink-only normalization into the
// padded canvas.
//
// [pipeline] - The import → layout → export pipeline with content-hash
// caching, used by both the CLI and the HTTP API so behavior stays
// consistent across entry points.
//
// [cache] - Layout result caching. FileCache for the CLI, RedisCache for
// multi-instance API deployments, NullCache for tests, with Keyer-based
// key generation for multi-tenant scoping.
//
// [store] - Persistence for positioned documents served by the API.
// MemoryStore for development, MongoStore for durable storage.
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and the HTTP error envelope.
//
// [observability] - Optional hooks for layout and cache events without a
// hard dependency on a metrics backend.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -short ./pkg/...    # Skip property-based tests
//
// [ocif]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/ocif
// [layout]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/cache
// [store]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/store
// [errors]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/errors
// [observability]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/devhelpr/ocif-generator/pkg/buildinfo
package pkg

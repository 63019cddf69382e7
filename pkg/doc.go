// Package pkg provides the core libraries for protouml diagram generation.
//
// # Overview
//
// Protouml turns Protocol Buffer schemas into PlantUML class diagrams and
// URL-safe render tokens. The pkg directory is organized into three main
// areas:
//
//  1. Domain - schema tree, diagram synthesis, and token encoding
//  2. Infra - caching, persistence, and HTTP retry plumbing
//  3. Ambient - error codes, build info, instrumentation hooks
//
// # Architecture
//
// The typical data flow through protouml:
//
//	.proto source
//	         ↓
//	    [schema] package (parse descriptors into a schema tree)
//	         ↓
//	    [uml] package (classify types, resolve edges, emit PlantUML text)
//	         ↓
//	    [plantuml] package (DEFLATE + base-64 token, render server client)
//	         ↓
//	    render URL / image bytes
//
// # Quick Start
//
//	file, err := schema.Load("user.proto")
//	if err != nil { ... }
//
//	diagram, err := uml.Generate(file, uml.Options{})
//	if err != nil { ... }
//
//	res, err := plantuml.Encode(diagram.Text)
//	if err != nil { ... }
//
//	url := plantuml.NewClient("").URL(res, "svg")
//
// # Packages
//
//   - [schema]: protobuf parsing into a navigable declaration tree
//   - [uml]: diagram text synthesis with relationship edges
//   - [plantuml]: token encoding and the render server client
//   - [cache]: file, Redis, and no-op render caches
//   - [store]: share persistence (in-memory and MongoDB)
//   - [errors]: coded errors shared across the module
//   - [httputil]: retry with exponential backoff
//   - [observability]: optional instrumentation hooks
//   - [buildinfo]: version metadata injected at build time
package pkg

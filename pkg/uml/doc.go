// Package uml synthesizes PlantUML class diagram text from a schema tree.
//
// Generation is a single pass over one [schema.File]: a [TypeIndex] classifies
// every declared entity, a [Resolver] maps field types onto known entities and
// decides relationship kind and cardinality, the package layout analyzer
// decides whether the diagram gets a named grouping wrapper, and the emitter
// walks entities in declaration order producing one block per message, enum,
// and service, followed by the deduplicated relationship edges.
//
// Every call to [Generate] owns its accumulators; nothing is shared between
// calls, so concurrent generations are independent.
package uml

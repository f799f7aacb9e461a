// Package services contains the core application services implementing
// the driving ports. Services orchestrate domain logic and driven
// ports (extractors, splitters, index builders, the cache and the AI
// adapters) without knowing anything about their implementations.
package services

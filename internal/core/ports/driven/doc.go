// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the document cache, the roster store, the
// extraction strategies, the LLM service, and the external fetch layer.
package driven

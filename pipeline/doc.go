// Package pipeline fuses the keyword and vector retrieval signals into a
// single prediction per calendar event.
//
// For each event the pipeline runs both searches over the fitted catalog,
// inner-joins the results on (project, activity) and sums the two scores.
// The highest fused score wins; ties resolve to the lexicographically
// smaller cell so reruns over the same catalog are deterministic. An event
// whose signals share no cell keeps an explicit unclassified error instead
// of being dropped.
//
// Batches fan out over a worker pool and event texts are embedded in one
// batch call up front. The keyword query can optionally be enriched with
// key phrases extracted by the provider's language model. Collaborator
// failures stay event-scoped: the affected event carries the error, the
// rest of the batch completes.
package pipeline

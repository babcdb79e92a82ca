// Package service contains the question-set use case. It coordinates the
// extractor, the content selector, the generation orchestrator and the reply
// aggregator to turn uploaded documents into a capped set of questions.
//
// The service depends on small consumer-side interfaces rather than concrete
// infrastructure, so the delivery layer can wire real adapters and tests can
// substitute mocks.
package service

// Package atlas implements retrieval.Retriever on MongoDB Atlas.
//
// Each corpus is a database named after the module code; reference passages
// live in one collection per database with a precomputed embedding field.
// Search runs an Atlas $vectorSearch aggregation with the query embedding;
// Sample uses $sample.
package atlas

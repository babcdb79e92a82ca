// Package quota distributes a requested question count across content units.
//
// Allocation is remainder-first and order-sensitive: the first quota%n buckets
// in traversal order receive one extra question. Callers that want to spread
// the extra questions differently reorder their units before allocating.
package quota

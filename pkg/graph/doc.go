// Package graph loads undirected edge lists into a compressed adjacency
// index.
//
// Vertices are interned into dense ids in first-seen order. Each vertex owns
// a contiguous, sorted range of arcs, and every arc is cross-linked to the
// arc running the other way so that per-edge results can be shared between
// both endpoints.
package graph

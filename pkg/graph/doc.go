// Package graph builds the adjacency graph of placed pieces. Two pieces are
// adjacent when a bottom connection point of one coincides with an aligned
// top stud of the other. The graph is a derived view over the placed pieces
// and is never persisted.
package graph

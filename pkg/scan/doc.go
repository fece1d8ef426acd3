// Package scan implements structural clustering of undirected graphs.
//
// Two adjacent vertices u and v are similar when
//
//	|N[u] ∩ N[v]| / sqrt(|N[u]|·|N[v]|) ≥ eps
//
// where N[x] is the closed neighbourhood of x (x and its neighbours). The
// comparison is carried out on integers: eps is fixed to four decimals and
// squared into an exact ratio, and each edge is checked against the minimum
// common-neighbour count that ratio implies.
//
// A vertex with at least mu-1 similar neighbours is a core. Cores joined by
// similar edges form clusters. Every other vertex joins the cluster of the
// cores it is similar to, becomes a hub when those cores span several
// clusters, or an outlier when there are none.
package scan

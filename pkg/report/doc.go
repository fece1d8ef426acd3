// Package report renders clustering results: a tab-separated text table,
// a JSON document, optionally snappy-compressed files, a Postgres sink and
// a terminal summary. It also scores a partition by Newman modularity.
package report

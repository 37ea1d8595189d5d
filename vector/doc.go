// Package vector implements exact inner-product retrieval over the
// embedded catalog. Catalog vectors are unit-normalized at build time, so
// inner product equals cosine similarity. The brute-force scan is the right
// tool here: catalogs are a few hundred cells at most and the full ranking
// is needed anyway for score fusion.
package vector

// Package cluster implements density-based clustering over an arbitrary
// pairwise distance.
package cluster

import "sort"

// Distance returns the distance between points i and j.
type Distance func(i, j int) float64

// DBSCAN clusters points 0..n-1. A point is a core point when at least
// minPts other points lie within eps of it; with minPts 0 every point is
// core and noise is always empty. Clusters are returned in order of their
// lowest member, members ascending.
func DBSCAN(n int, eps float64, minPts int, dist Distance) (clusters [][]int, noise []int) {
	const (
		unvisited = 0
		noisy     = -1
	)
	label := make([]int, n) // 0 unvisited, -1 noise, k+1 cluster k

	neighbors := func(p int) []int {
		var out []int
		for q := 0; q < n; q++ {
			if q != p && dist(p, q) <= eps {
				out = append(out, q)
			}
		}
		return out
	}

	for p := 0; p < n; p++ {
		if label[p] != unvisited {
			continue
		}
		seeds := neighbors(p)
		if len(seeds) < minPts {
			label[p] = noisy
			continue
		}

		k := len(clusters)
		label[p] = k + 1
		members := []int{p}
		for i := 0; i < len(seeds); i++ {
			q := seeds[i]
			if label[q] == noisy {
				// border point
				label[q] = k + 1
				members = append(members, q)
				continue
			}
			if label[q] != unvisited {
				continue
			}
			label[q] = k + 1
			members = append(members, q)
			if more := neighbors(q); len(more) >= minPts {
				seeds = append(seeds, more...)
			}
		}
		sort.Ints(members)
		clusters = append(clusters, members)
	}

	for p := 0; p < n; p++ {
		if label[p] == noisy {
			noise = append(noise, p)
		}
	}
	return clusters, noise
}

// Matrix returns a Distance backed by a precomputed symmetric matrix.
func Matrix(d [][]float64) Distance {
	return func(i, j int) float64 { return d[i][j] }
}

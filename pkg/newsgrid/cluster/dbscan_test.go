package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(xs ...float64) Distance {
	return func(i, j int) float64 { return math.Abs(xs[i] - xs[j]) }
}

func TestDBSCANMinPtsZero(t *testing.T) {
	// 0,0.3,0.6 chain together; 5 is alone; 9,9.2 pair up.
	clusters, noise := DBSCAN(6, 0.4, 0, line(0, 0.3, 5, 0.6, 9, 9.2))
	assert.Equal(t, [][]int{{0, 1, 3}, {2}, {4, 5}}, clusters)
	assert.Empty(t, noise)
}

func TestDBSCANNoise(t *testing.T) {
	clusters, noise := DBSCAN(5, 0.5, 2, line(0, 0.2, 0.4, 3, 10))
	assert.Equal(t, [][]int{{0, 1, 2}}, clusters)
	assert.Equal(t, []int{3, 4}, noise)
}

func TestDBSCANBorderPoint(t *testing.T) {
	// 0.9 is within reach of core point 0.5 but has only one neighbour.
	clusters, noise := DBSCAN(4, 0.45, 2, line(0, 0.1, 0.5, 0.9))
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, clusters)
	assert.Empty(t, noise)
}

func TestDBSCANEmpty(t *testing.T) {
	clusters, noise := DBSCAN(0, 1, 0, Matrix(nil))
	assert.Empty(t, clusters)
	assert.Empty(t, noise)
}

func TestMatrixDistance(t *testing.T) {
	d := Matrix([][]float64{{0, 0.2}, {0.2, 0}})
	clusters, _ := DBSCAN(2, 0.2, 0, d)
	assert.Equal(t, [][]int{{0, 1}}, clusters)
}

func TestDBSCANMembersSorted(t *testing.T) {
	// The chain 0 -> 3 -> 1 is discovered out of index order.
	clusters, _ := DBSCAN(4, 0.4, 0, line(0, 0.6, 5, 0.3))
	assert.Equal(t, [][]int{{0, 1, 3}, {2}}, clusters)
}

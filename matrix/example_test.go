// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"
	"sort"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// ExampleEigen decomposes a small covariance matrix.
func ExampleEigen() {
	cov, _ := matrix.NewDenseFromRows([][]float64{
		{2, 1},
		{1, 2},
	})
	vals, _, err := matrix.Eigen(cov, 1e-12, 10)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sort.Float64s(vals)
	fmt.Printf("%.3f %.3f\n", vals[0], vals[1])
	// Output:
	// 1.000 3.000
}

// ExampleCosine compares two concept vectors.
func ExampleCosine() {
	c, _ := matrix.Cosine([]float64{1, 1, 0}, []float64{1, 0, 0})
	fmt.Printf("%.3f\n", c)
	// Output:
	// 0.707
}

package textsim

import "gonum.org/v1/gonum/mat"

// Matrix computes the cosine similarity between every project profile and
// every assessor profile. The vector space is fitted over the union of both
// profile sets so the two sides are directly comparable. Row i, column j is
// the similarity of project i to assessor j, always in [0, 1].
func Matrix(projectTexts, assessorTexts []string) *mat.Dense {
	n, m := len(projectTexts), len(assessorTexts)
	if n == 0 || m == 0 {
		return &mat.Dense{}
	}
	corpus := make([]string, 0, n+m)
	corpus = append(corpus, projectTexts...)
	corpus = append(corpus, assessorTexts...)

	vec := Fit(corpus)
	if len(vec.terms) == 0 {
		// Degenerate corpus: every profile empty or stop words only.
		return mat.NewDense(n, m, nil)
	}

	x := vec.Transform(corpus)
	cols := len(vec.terms)
	p := x.Slice(0, n, 0, cols)
	a := x.Slice(n, n+m, 0, cols)

	var sim mat.Dense
	sim.Mul(p, a.T())

	// Rows are l2-normalized so cosine lands in [0,1]; clamp float noise.
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			switch v := sim.At(i, j); {
			case v < 0:
				sim.Set(i, j, 0)
			case v > 1:
				sim.Set(i, j, 1)
			}
		}
	}
	return &sim
}

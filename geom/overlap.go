package geom

// BoxOverlap estimates the fraction of box occupied by the object, by
// recursive bisection of the box. A sub-box whose corners and center all
// agree is counted whole; mixed sub-boxes are split until the volume they
// could misattribute drops below tol or the evaluation budget runs out,
// at which point the center point decides. Degenerate box sides are never
// split, so the routine works unchanged for 1-D and 2-D cells.
func BoxOverlap(box Box, o *Object, tol float64, maxEval int) float64 {
	if maxEval <= 0 {
		maxEval = 1 << 14
	}
	evals := 0
	frac := overlapRec(box, o, tol, maxEval, &evals)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return frac
}

func overlapRec(b Box, o *Object, tol float64, maxEval int, evals *int) float64 {
	samples := [9]Vector3{
		b.Center(),
		{b.Low.X, b.Low.Y, b.Low.Z},
		{b.Low.X, b.Low.Y, b.High.Z},
		{b.Low.X, b.High.Y, b.Low.Z},
		{b.Low.X, b.High.Y, b.High.Z},
		{b.High.X, b.Low.Y, b.Low.Z},
		{b.High.X, b.Low.Y, b.High.Z},
		{b.High.X, b.High.Y, b.Low.Z},
		{b.High.X, b.High.Y, b.High.Z},
	}
	in := 0
	for _, q := range samples {
		if o.Contains(q) {
			in++
		}
	}
	*evals += len(samples)
	if in == 0 {
		return 0
	}
	if in == len(samples) {
		return 1
	}
	if *evals >= maxEval || tol >= 1 {
		// undecided and out of budget: the center point casts the vote
		if o.Contains(b.Center()) {
			return 1
		}
		return 0
	}

	// split every non-degenerate axis in half and average the children
	c := b.Center()
	xs := splits(b.Low.X, c.X, b.High.X)
	ys := splits(b.Low.Y, c.Y, b.High.Y)
	zs := splits(b.Low.Z, c.Z, b.High.Z)
	n := len(xs) * len(ys) * len(zs)
	sum := 0.0
	for _, xr := range xs {
		for _, yr := range ys {
			for _, zr := range zs {
				child := Box{
					Vector3{xr[0], yr[0], zr[0]},
					Vector3{xr[1], yr[1], zr[1]},
				}
				sum += overlapRec(child, o, tol*2, maxEval, evals)
			}
		}
	}
	return sum / float64(n)
}

func splits(lo, mid, hi float64) [][2]float64 {
	if lo == hi {
		return [][2]float64{{lo, hi}}
	}
	return [][2]float64{{lo, mid}, {mid, hi}}
}

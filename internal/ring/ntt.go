package ring

// Forward computes the forward NTT of p (standard domain) into out (NTT
// domain), in place if p and out share the same backing array. It implements
// the classic iterative Cooley-Tukey butterfly network indexed by the
// bit-reversed root table generated by Table.GenNTTParams, the same shape as
// the Kyber/Dilithium reference NTT and the reference ring package's ring.NTT.
//
// Contract: for n | q-1 and the primitive 2n-th root used to build the
// table, two polynomials multiplied pointwise in the NTT domain and then
// inverse-NTT-ed equal their convolution modulo x^n+1.
func (r *Ring) Forward(p, out Poly) {
	if p.Domain != Standard {
		panic("ring: Forward requires the standard domain")
	}
	n := r.N
	q := r.Q
	zetas := r.table.RootsForward

	if &p.Coeffs[0] != &out.Coeffs[0] {
		copy(out.Coeffs, p.Coeffs)
	}
	c := out.Coeffs

	t := n
	for m := 1; m < n; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			zeta := zetas[m+i]
			j1 := 2 * i * t
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				u := c[j]
				v := mulModSlow(c[j+t], zeta, q)
				c[j] = addModN(u, v, q)
				c[j+t] = subModN(u, v, q)
			}
		}
	}

	out.Domain = NTT
}

// Inverse computes the inverse NTT of p (NTT domain) into out (standard
// domain), scaling by N^-1 mod q.
func (r *Ring) Inverse(p, out Poly) {
	if p.Domain != NTT {
		panic("ring: Inverse requires the NTT domain")
	}
	n := r.N
	q := r.Q
	zetas := r.table.RootsBackward

	if &p.Coeffs[0] != &out.Coeffs[0] {
		copy(out.Coeffs, p.Coeffs)
	}
	c := out.Coeffs

	t := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			zeta := zetas[h+i]
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				u := c[j]
				v := c[j+t]
				c[j] = addModN(u, v, q)
				c[j+t] = mulModSlow(subModN(u, v, q), zeta, q)
			}
			j1 += 2 * t
		}
		t <<= 1
	}

	nInv := r.table.NInv
	for i := range c {
		c[i] = mulModSlow(c[i], nInv, q)
	}

	out.Domain = Standard
}

func addModN(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

func subModN(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

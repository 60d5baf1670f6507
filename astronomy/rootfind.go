package astronomy

import (
	"fmt"
	"math"
)

const (
	bracketStepDays = 0.25
	bracketMaxSteps = 30

	brentMaxIterations = 100
)

// BracketingError reports a failure to bracket a solar-longitude root around
// the seed. It carries the search parameters for regression fixtures.
type BracketingError struct {
	TargetDeg float64
	SeedJD    float64
	SpanDays  float64
}

func (e *BracketingError) Error() string {
	return fmt.Sprintf("could not bracket solar longitude %g within +/-%g days of seed JD %f",
		e.TargetDeg, e.SpanDays, e.SeedJD)
}

// Code returns the stable error taxonomy name.
func (e *BracketingError) Code() string { return "bracketing_failed" }

// ConvergenceError reports a Brent solve that exhausted its iteration budget.
type ConvergenceError struct {
	A, B       float64
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("Brent solver did not converge within %d iterations on [%f, %f]",
		e.Iterations, e.A, e.B)
}

// Code returns the stable error taxonomy name.
func (e *ConvergenceError) Code() string { return "brent_did_not_converge" }

// NormalizeLongitudeDiff wraps a longitude difference into (-180, 180].
func NormalizeLongitudeDiff(diffDeg float64) float64 {
	for diffDeg > 180 {
		diffDeg -= 360
	}
	for diffDeg <= -180 {
		diffDeg += 360
	}
	return diffDeg
}

// FindBracket scans outward from seedJD in quarter-day steps, first forward
// then backward, for an interval where the signed normalized residual
// lambda(jd) - target changes sign.
func FindBracket(targetDeg, seedJD float64, longitudeFn func(float64) float64) (a, b float64, err error) {
	f := func(jd float64) float64 {
		return NormalizeLongitudeDiff(longitudeFn(jd) - targetDeg)
	}

	seedValue := f(seedJD)
	if seedValue == 0 {
		return seedJD - bracketStepDays, seedJD + bracketStepDays, nil
	}

	for i := 1; i <= bracketMaxSteps; i++ {
		jd := seedJD + float64(i)*bracketStepDays
		if f(jd)*seedValue < 0 {
			return seedJD + float64(i-1)*bracketStepDays, jd, nil
		}
	}
	for i := 1; i <= bracketMaxSteps; i++ {
		jd := seedJD - float64(i)*bracketStepDays
		if f(jd)*seedValue < 0 {
			return jd, seedJD - float64(i-1)*bracketStepDays, nil
		}
	}

	return 0, 0, &BracketingError{
		TargetDeg: targetDeg,
		SeedJD:    seedJD,
		SpanDays:  bracketStepDays * bracketMaxSteps,
	}
}

// Brent finds a root of f on the bracketing interval [xa, xb] to within xtol:
// inverse quadratic interpolation when admissible, secant fallback, bisection
// safeguard.
func Brent(f func(float64) float64, xa, xb, xtol float64) (float64, error) {
	fa := f(xa)
	fb := f(xb)

	if fa == 0 {
		return xa, nil
	}
	if fb == 0 {
		return xb, nil
	}
	if fa*fb > 0 {
		return 0, fmt.Errorf("root is not bracketed on [%f, %f]", xa, xb)
	}

	a, b := xa, xb
	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < brentMaxIterations; i++ {
		if fb*fc > 0 {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := xtol
		midpoint := 0.5 * (c - b)

		if math.Abs(midpoint) <= tol || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * midpoint * s
				q = 1 - s
			} else {
				qr := fa / fc
				rr := fb / fc
				p = s * (2*midpoint*qr*(qr-rr) - (b-a)*(rr-1))
				q = (qr - 1) * (rr - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			min1 := 3*midpoint*q - math.Abs(tol*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = midpoint
				e = d
			}
		} else {
			d = midpoint
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else if midpoint > 0 {
			b += tol
		} else {
			b -= tol
		}
		fb = f(b)
	}

	return 0, &ConvergenceError{A: xa, B: xb, Iterations: brentMaxIterations}
}

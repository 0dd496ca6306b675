package transform

// minCacheDimension is the smallest cached dimension for sources at least
// that large.
const minCacheDimension = 32

// PowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func PowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FloorPowerOfTwo returns the largest power of two <= n (1 for n <= 1).
func FloorPowerOfTwo(n int) int {
	p := PowerOfTwo(n)
	if p > n && p > 1 {
		p >>= 1
	}
	return p
}

// Closest returns whichever of hi and lo is nearer to n. Ties go to hi.
func Closest(n, hi, lo int) int {
	if abs(n-hi) > abs(n-lo) {
		return lo
	}
	return hi
}

// TargetSize computes the cached dimensions for a banner of width×height:
// each side is halved, snapped to the nearer enclosing or preceding power of
// two, and kept at or above min(32, PowerOfTwo(side)).
func TargetSize(width, height int) (int, int) {
	return targetDimension(width), targetDimension(height)
}

func targetDimension(original int) int {
	half := original / 2
	p := PowerOfTwo(half)
	v := Closest(half, p, p/2)

	floor := PowerOfTwo(original)
	if floor > minCacheDimension {
		floor = minCacheDimension
	}
	if v < floor {
		v = floor
	}
	return v
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

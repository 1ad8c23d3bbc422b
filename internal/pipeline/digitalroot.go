package pipeline

// DigitalRoot reduces a positive integer to a single digit 1..9 by
// repeatedly summing its decimal digits. Returns 0 for n <= 0.
func DigitalRoot(n int64) int {
	if n <= 0 {
		return 0
	}
	return int(1 + (n-1)%9)
}

// IsTeslaNumber reports whether a digital root belongs to the 3-6-9 group.
func IsTeslaNumber(root int) bool {
	return root == 3 || root == 6 || root == 9
}

// IsVortexCycleNumber reports whether a digital root belongs to the
// doubling cycle 1-2-4-8-7-5. Every digital root 1..9 is one or the other.
func IsVortexCycleNumber(root int) bool {
	switch root {
	case 1, 2, 4, 8, 7, 5:
		return true
	}
	return false
}

package pipeline

import "testing"

func TestDigitalRoot(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want int
	}{
		{"single digit", 7, 7},
		{"two digits", 38, 2},
		{"123 reduces to 6", 123, 6},
		{"sixty", 60, 6},
		{"nine stays nine", 9, 9},
		{"multiple of nine", 81, 9},
		{"large number", 999999999, 9},
		{"zero", 0, 0},
		{"negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DigitalRoot(tt.n); got != tt.want {
				t.Errorf("DigitalRoot(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestDigitalRootIdempotent(t *testing.T) {
	// The root of a root is the root itself, for every positive input.
	for n := int64(1); n <= 10000; n++ {
		root := DigitalRoot(n)
		if root < 1 || root > 9 {
			t.Fatalf("DigitalRoot(%d) = %d, out of range 1..9", n, root)
		}
		if again := DigitalRoot(int64(root)); again != root {
			t.Fatalf("DigitalRoot not idempotent at %d: root %d re-reduced to %d", n, root, again)
		}
	}
}

func TestRootGroupsPartitionDigits(t *testing.T) {
	// Every digital root 1..9 is exactly one of Tesla or vortex-cycle.
	for root := 1; root <= 9; root++ {
		tesla := IsTeslaNumber(root)
		vortex := IsVortexCycleNumber(root)
		if tesla == vortex {
			t.Errorf("root %d: tesla=%v vortex=%v, want exactly one", root, tesla, vortex)
		}
	}
}

package core

import "testing"

func TestPercent1(t *testing.T) {
	tests := []struct {
		part, whole float64
		want        float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{57, 62, 91.9},
		{20, 22, 90.9},
		{52000, 60000, 86.7},
		{1, 16, 6.3}, // 6.25
		{-52000, 52000, -100},
		{3, 2, 150},
	}
	for _, tt := range tests {
		if got := Percent1(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percent1(%v, %v) = %v; want %v", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  Lab \n"); got != "Lab" {
		t.Errorf("CleanString() = %q; want %q", got, "Lab")
	}
	if got := CleanString(" Medical ", true); got != "medical" {
		t.Errorf("CleanString(lower) = %q; want %q", got, "medical")
	}
}

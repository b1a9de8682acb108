package helpers

import "testing"

func TestParseClockTime(t *testing.T) {
	if _, err := ParseClockTime("09:30"); err != nil {
		t.Errorf("valid time rejected: %v", err)
	}
	if _, err := ParseClockTime("9:30am"); err == nil {
		t.Error("expected error for non HH:MM value")
	}
	if _, err := ParseClockTime("25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}

func TestClockRangeValid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"normal range", "09:00", "10:30", true},
		{"inverted range", "11:00", "10:00", false},
		{"zero-length range", "10:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClockRangeValid(tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClockRangeValid(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestClockRangesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"partial overlap", "09:00", "10:00", "09:30", "10:30", true},
		{"containment", "09:00", "12:00", "10:00", "11:00", true},
		{"identical ranges", "09:00", "10:00", "09:00", "10:00", true},
		{"back to back slots", "09:00", "10:00", "10:00", "11:00", false},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
		{"reversed arguments still disjoint", "14:00", "15:00", "09:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClockRangesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("overlap(%s-%s, %s-%s) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

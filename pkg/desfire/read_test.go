package desfire

import "testing"

func TestExtractWindow(t *testing.T) {
	const payload = "DEADBEEFCAFE" // 6 bytes, indices 0-5

	tests := []struct {
		name        string
		first, last uint
		expected    string
	}{
		{"Ascending inner window", 1, 3, "ADBEEF"},
		{"Descending reversed window", 3, 1, "EFBEAD"},
		{"Full ascending", 0, 5, "DEADBEEFCAFE"},
		{"Full descending", 5, 0, "FECAEFBEADDE"},
		{"Single byte", 2, 2, "BE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractWindow(payload, tt.first, tt.last)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("extractWindow(%d, %d) = %s; want %s", tt.first, tt.last, got, tt.expected)
			}
		})
	}
}

func TestExtractWindow_OutOfRange(t *testing.T) {
	const payload = "DEADBEEFCAFE"

	for _, tt := range []struct{ first, last uint }{
		{6, 0},
		{0, 6},
		{100, 100},
	} {
		_, err := extractWindow(payload, tt.first, tt.last)
		if err == nil {
			t.Errorf("expected boundary error for window %d..%d", tt.first, tt.last)
			continue
		}
		if KindOf(err) != KindArgument {
			t.Errorf("window %d..%d: kind = %v; want argument error", tt.first, tt.last, KindOf(err))
		}
	}
}

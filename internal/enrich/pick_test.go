package enrich

import "testing"

func TestBestIndex(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []string
		want       int
	}{
		{
			name:       "exact match",
			query:      "The Matrix",
			candidates: []string{"The Matrix Reloaded", "The Matrix", "Matrix Revolutions"},
			want:       1,
		},
		{
			name:       "case and punctuation ignored",
			query:      "amelie",
			candidates: []string{"Amélie", "American Beauty"},
			want:       0,
		},
		{
			name:       "nothing clears the threshold",
			query:      "Zzyx",
			candidates: []string{"Completely Unrelated Documentary"},
			want:       -1,
		},
		{
			name:       "empty candidates",
			query:      "anything",
			candidates: nil,
			want:       -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestIndex(tt.query, tt.candidates); got != tt.want {
				t.Errorf("bestIndex(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"Amélie", "amelie"},
		{"  spaced   out  ", "spaced out"},
		{"WALL·E", "walle"},
	}
	for _, tt := range tests {
		if got := normalizeForMatch(tt.in); got != tt.want {
			t.Errorf("normalizeForMatch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

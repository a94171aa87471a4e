package catalog

import "testing"

func TestTitleKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  The   Matrix  ", "the matrix"},
		{"Amélie", "amelie"},
		{"WALL·E", "walle"},
		{"Se7en", "se7en"},
		{"Birdman: Or (The Unexpected Virtue of Ignorance)", "birdman or the unexpected virtue of ignorance"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := TitleKey(tt.in); got != tt.want {
			t.Errorf("TitleKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProviderIDFromPosterURL(t *testing.T) {
	tests := []struct {
		url  string
		want *int64
	}{
		{"https://img.example.com/tmdb/603.jpg", ptr(int64(603))},
		{"https://img.example.com/tmdb/70523.webp", ptr(int64(70523))},
		{"https://img.example.com/posters/603.jpg", nil},
		{"https://img.example.com/tmdb/abc.jpg", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := ProviderIDFromPosterURL(tt.url)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ProviderIDFromPosterURL(%q) = %d, want nil", tt.url, *got)
		case tt.want != nil && got == nil:
			t.Errorf("ProviderIDFromPosterURL(%q) = nil, want %d", tt.url, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("ProviderIDFromPosterURL(%q) = %d, want %d", tt.url, *got, *tt.want)
		}
	}
}

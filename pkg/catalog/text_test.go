package catalog

import "testing"

func TestNormalizeForComparison(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"İnceleme", "nceleme"},
		{"inceleme", "nceleme"},
		{"İNCELEME", "nceleme"},
		{"INCELEME", "nceleme"}, // ASCII I lowercases to ı under Turkish rules
		{"ınceleme", "nceleme"},
		{"Oyun", "oyun"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeForComparison(tt.input); got != tt.want {
			t.Errorf("NormalizeForComparison(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeForComparison_CaseVariantsAgree(t *testing.T) {
	// Every i/İ/ı/I casing of the same word must normalize identically.
	variants := []string{"İnceleme", "inceleme", "İNCELEME", "INCELEME", "ınceleme"}
	want := NormalizeForComparison(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeForComparison(v); got != want {
			t.Errorf("NormalizeForComparison(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestSortTurkish(t *testing.T) {
	list := []string{"Şiir", "Söyleşi", "İnceleme", "Dosya", "Çizgi Roman"}
	sortTurkish(list)

	want := []string{"Çizgi Roman", "Dosya", "İnceleme", "Söyleşi", "Şiir"}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("sortTurkish = %v, want %v", list, want)
		}
	}
}

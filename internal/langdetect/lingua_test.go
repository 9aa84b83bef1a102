package langdetect

import "testing"

func TestDetectISO6391(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The group reported a significant increase in quarterly revenue compared to the prior year.", "en"},
		{"french", "Le groupe a annoncé une hausse significative de son chiffre d'affaires trimestriel.", "fr"},
		{"blank", "   ", ""},
		{"too short", "Q3 +5%", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DetectISO6391(tt.text); got != tt.want {
				t.Errorf("DetectISO6391(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

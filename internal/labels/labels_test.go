package labels

import "testing"

func TestHumanize(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"name", "Name"},
		{"marital_status", "Marital Status"},
		{"zip_code", "Zip Code"},
		{"date_of_birth", "Date Of Birth"},
		{"jira-ticket", "Jira Ticket"},
		{"releaseNotes", "Release Notes"},
		{"HTTPPort", "Httpport"},
		{"field2name", "Field 2 Name"},
		{"  spaced  label ", "Spaced Label"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Humanize(tc.label); got != tc.want {
			t.Fatalf("Humanize(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

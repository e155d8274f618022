package gemini

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced without language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"padded", "  {\"a\": 1}\n\n", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDecodeResponseRejectsGarbage(t *testing.T) {
	var out struct {
		Score int `mapstructure:"score"`
	}
	if err := decodeResponse("the model apologizes and refuses", &out); err == nil {
		t.Fatalf("expected error for non-JSON response")
	}
}

func TestCleanStrings(t *testing.T) {
	got := cleanStrings([]string{" Go ", "", "SQL", "go", "Kubernetes"})
	want := []string{"Go", "SQL", "Kubernetes"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

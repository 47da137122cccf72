package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Phone":      "phone",
		"Identifier": "identifier",
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"Code6Digit": "code6_digit",
		"already":    "already",
	}

	for in, want := range tests {
		if got := ToLowerSnake(in); got != want {
			t.Fatalf("ToLowerSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

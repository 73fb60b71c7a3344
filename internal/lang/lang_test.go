package lang

import "testing"

func TestFromExtension(t *testing.T) {
	tests := []struct {
		ext    string
		want   Language
		wantOk bool
	}{
		{".go", Go, true},
		{".js", JavaScript, true},
		{".mjs", JavaScript, true},
		{".jsx", JavaScript, true},
		{".ts", TypeScript, true},
		{".tsx", TSX, true},
		{".py", Python, true},
		{".rs", Rust, true},
		{".java", Java, true},
		{".kts", Kotlin, true},
		{".JS", JavaScript, true},
		{".rb", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, ok := FromExtension(tt.ext)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("FromExtension(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	// Hint wins over extension
	got, ok := Detect("script.js", "python")
	if !ok || got != Python {
		t.Errorf("Detect with hint = (%q, %v), want (python, true)", got, ok)
	}

	// No hint falls back to extension
	got, ok = Detect("src/app.tsx", "")
	if !ok || got != TSX {
		t.Errorf("Detect without hint = (%q, %v), want (tsx, true)", got, ok)
	}

	// Unknown hint fails even with a known extension
	if _, ok := Detect("main.go", "cobol"); ok {
		t.Error("unknown hint should not resolve")
	}
}

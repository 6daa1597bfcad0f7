package index

import "testing"

func TestBuildFTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "  ", `content:""`},
		{"plain", "websocket chat", "{title content}: (websocket chat)"},
		{"hyphenated", "end-to-end", `{title content}: ("end-to-end")`},
		{"dotted", "node.js", `{title content}: ("node.js")`},
		{"operators kept", "go AND rust", "{title content}: (go AND rust)"},
		{"quoted phrase kept", `"a-b c"`, `{title content}: ("a-b c")`},
		{"negation kept", "-draft", "{title content}: (-draft)"},
		{"prefix", "sync*", "{title content}: (sync*)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildFTSQuery(tt.input); got != tt.want {
				t.Errorf("BuildFTSQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

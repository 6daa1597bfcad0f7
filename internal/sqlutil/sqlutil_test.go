package sqlutil

import (
	"reflect"
	"testing"
)

func TestPlaceholders(t *testing.T) {
	ph, args := Placeholders([]string{"a", "b", "c"})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if !reflect.DeepEqual(args, []any{"a", "b", "c"}) {
		t.Errorf("args = %v", args)
	}

	ph, args = Placeholders[string](nil)
	if ph != "NULL" || args != nil {
		t.Errorf("empty = %q %v", ph, args)
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		items []int
		size  int
		want  [][]int
	}{
		{nil, 2, nil},
		{[]int{1, 2, 3}, 2, [][]int{{1, 2}, {3}}},
		{[]int{1, 2}, 2, [][]int{{1, 2}}},
		{[]int{1}, 0, [][]int{{1}}},
	}
	for _, tt := range tests {
		if got := Chunks(tt.items, tt.size); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Chunks(%v, %d) = %v, want %v", tt.items, tt.size, got, tt.want)
		}
	}
}

func TestChunksDoNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	chunks := Chunks(items, 2)
	chunks[0] = append(chunks[0], 99)
	if items[2] != 3 {
		t.Fatalf("append through chunk overwrote source: %v", items)
	}
}

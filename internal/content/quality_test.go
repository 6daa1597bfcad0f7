package content

import (
	"math"
	"testing"
)

func TestQuality(t *testing.T) {
	tests := []struct {
		name                  string
		errors, warnings      int
		entity, techs, images bool
		want                  float64
	}{
		{"clean rich record clamps to one", 0, 0, true, true, true, 1.0},
		{"empty record with nothing", 0, 0, false, false, false, 1.0},
		{"one error", 1, 0, false, false, false, 0.9},
		{"two warnings", 0, 2, false, false, false, 0.9},
		{"penalties before rewards", 2, 2, true, true, false, 0.9},
		{"images reward", 1, 1, false, false, true, 0.9},
		{"many errors clamp to zero", 20, 5, true, true, true, 0.0},
		{"rewards cannot lift past clamp after penalties", 12, 0, true, true, true, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quality(tt.errors, tt.warnings, tt.entity, tt.techs, tt.images)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Quality() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualityAlwaysInRange(t *testing.T) {
	for errs := 0; errs < 15; errs++ {
		for warns := 0; warns < 25; warns++ {
			for mask := 0; mask < 8; mask++ {
				q := Quality(errs, warns, mask&1 != 0, mask&2 != 0, mask&4 != 0)
				if q < 0 || q > 1 {
					t.Fatalf("Quality(%d, %d, mask %d) = %v out of range", errs, warns, mask, q)
				}
			}
		}
	}
}

type fakeEntity struct{ title string }

func (f *fakeEntity) Kind() Type                     { return TypeProject }
func (f *fakeEntity) Empty() bool                    { return f.title == "" }
func (f *fakeEntity) Identity() (title, slug string) { return f.title, "" }

func TestComputeQuality(t *testing.T) {
	rec := NewExtracted(TypeProject, "p.md")
	rec.MainEntity = &fakeEntity{title: "X"}
	rec.AddError("bad url")
	rec.AddWarning("no technologies")

	if got := rec.ComputeQuality(); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("ComputeQuality() = %v, want 0.95", got)
	}
	if rec.Valid() {
		t.Error("record with errors should not be valid")
	}
}

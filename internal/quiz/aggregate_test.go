package quiz

import (
	"testing"

	"github.com/abhisek/smartstudy/internal/study"
)

func attempts(pcts ...int) []study.Attempt {
	out := make([]study.Attempt, len(pcts))
	for i, p := range pcts {
		out[i] = study.Attempt{Percentage: p}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		pcts   []int
		want   Stats
		wantOK bool
	}{
		{"empty", nil, Stats{}, false},
		{"single", []int{70}, Stats{Count: 1, Mean: 70, Best: 70}, true},
		{"example", []int{80, 60, 100}, Stats{Count: 3, Mean: 80, Best: 100}, true},
		{"rounds half up", []int{50, 51}, Stats{Count: 2, Mean: 51, Best: 51}, true},
		{"rounds down", []int{33, 33, 34}, Stats{Count: 3, Mean: 33, Best: 34}, true},
		{"all zero", []int{0, 0}, Stats{Count: 2, Mean: 0, Best: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Aggregate(attempts(tt.pcts...))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("Aggregate(%v) = %+v, want %+v", tt.pcts, got, tt.want)
			}
		})
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a, _ := Aggregate(attempts(10, 90, 40, 75))
	b, _ := Aggregate(attempts(75, 40, 90, 10))
	if a != b {
		t.Fatalf("order changed result: %+v vs %+v", a, b)
	}
}

package usage

import "testing"

func TestNewReport(t *testing.T) {
	b := Budget{Limit: 1000000, Remaining: 615800, ResetsAt: 1700000000000}
	r := NewReport(PeriodMonth, 1700000000, 1702600000, 384200, b)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q", r.Period())
	}
	if r.PeriodStart() != 1700000000 {
		t.Errorf("PeriodStart() = %d", r.PeriodStart())
	}
	if r.PeriodEnd() != 1702600000 {
		t.Errorf("PeriodEnd() = %d", r.PeriodEnd())
	}
	if r.Tokens() != 384200 {
		t.Errorf("Tokens() = %d", r.Tokens())
	}
	if r.Budget().Limit != 1000000 {
		t.Errorf("Budget().Limit = %d", r.Budget().Limit)
	}
}

func TestBudget_Exhausted(t *testing.T) {
	tests := []struct {
		name string
		b    Budget
		want bool
	}{
		{"unlimited", Budget{Limit: 0, Remaining: -1}, false},
		{"remaining", Budget{Limit: 100, Remaining: 1}, false},
		{"spent", Budget{Limit: 100, Remaining: 0}, true},
	}
	for _, tc := range tests {
		if got := tc.b.Exhausted(); got != tc.want {
			t.Errorf("%s: Exhausted() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodMonth, false},
		{"day", PeriodDay, false},
		{"month", PeriodMonth, false},
		{"week", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePeriod(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

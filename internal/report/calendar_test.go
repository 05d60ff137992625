package report

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(DateKey, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregate_SeverityDominance(t *testing.T) {
	rows := []DayStatus{
		{Date: day("2024-03-01"), Status: model.StatusEingereicht},
		{Date: day("2024-03-01"), Status: model.StatusAenderungsbedarf},
		{Date: day("2024-03-02"), Status: model.StatusGeprueft},
		{Date: day("2024-03-02"), Status: model.StatusEingereicht},
		{Date: day("2024-03-03"), Status: model.StatusEntwurf},
	}

	got := Aggregate(rows)
	want := map[string]Severity{
		"2024-03-01": SeverityRed,
		"2024-03-02": SeverityYellow,
		"2024-03-03": SeverityGreen,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("aggregate mismatch: got %v want %v", got, want)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	rows := []DayStatus{
		{Date: day("2024-03-01"), Status: model.StatusEntwurf},
		{Date: day("2024-03-01"), Status: model.StatusAenderungsbedarf},
		{Date: day("2024-03-01"), Status: model.StatusEingereicht},
		{Date: day("2024-03-04"), Status: model.StatusGeprueft},
	}
	want := Aggregate(rows)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]DayStatus, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Aggregate(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d changed result: got %v want %v", i, got, want)
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestStatusSeverity(t *testing.T) {
	cases := map[model.ReportStatus]Severity{
		model.StatusAenderungsbedarf: SeverityRed,
		model.StatusEingereicht:      SeverityYellow,
		model.StatusGeprueft:         SeverityGreen,
		model.StatusEntwurf:          SeverityGreen,
		model.ReportStatus("BOGUS"):  SeverityNone,
	}
	for status, want := range cases {
		if got := StatusSeverity(status); got != want {
			t.Fatalf("severity of %s: got %d want %d", status, got, want)
		}
	}
	if SeverityRed <= SeverityYellow || SeverityYellow <= SeverityGreen || SeverityGreen <= SeverityNone {
		t.Fatal("severity ranking must be RED > YELLOW > GREEN > NONE")
	}
}

func TestSeverityIndicator(t *testing.T) {
	if SeverityRed.Indicator() != "RED" || SeverityNone.Indicator() != "NONE" {
		t.Fatal("indicator names changed")
	}
}

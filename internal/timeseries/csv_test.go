package timeseries

import (
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	s := New([]Point{
		{Date: date(2020, 1, 1), Rainfall: 0},
		{Date: date(2020, 1, 2), Rainfall: 10.5},
		{Date: date(2020, 2, 14), Rainfall: 3},
	})

	var buf strings.Builder
	if err := s.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}

	expected := "Date,Rainfall_mm\n" +
		"01-01-2020,0\n" +
		"02-01-2020,10.5\n" +
		"14-02-2020,3\n"
	if buf.String() != expected {
		t.Errorf("unexpected CSV output:\nexpected:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestWriteCSVEmptySeries(t *testing.T) {
	var s Series
	var buf strings.Builder
	if err := s.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}
	if buf.String() != "Date,Rainfall_mm\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

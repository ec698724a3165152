package services

import (
	"errors"
	"testing"
)

func TestAlertSingleSlot(t *testing.T) {
	a := &AlertService{}

	if _, visible := a.Current(); visible {
		t.Fatal("new alert service must start hidden")
	}

	a.Show(errors.New("first failure"))
	a.Show(errors.New("second failure"))

	msg, visible := a.Current()
	if !visible {
		t.Fatal("alert must be visible after Show")
	}
	if msg != "second failure" {
		t.Fatalf("last writer must win, got %q", msg)
	}

	a.Clear()
	if _, visible := a.Current(); visible {
		t.Fatal("Clear must hide the alert")
	}
}

func TestAlertNilAndEmpty(t *testing.T) {
	a := &AlertService{}

	a.Show(nil)
	if _, visible := a.Current(); visible {
		t.Fatal("nil error must not show a banner")
	}

	a.ShowMessage("")
	msg, visible := a.Current()
	if !visible || msg != "An unexpected error occurred." {
		t.Fatalf("empty message must fall back to the generic text, got %q", msg)
	}
}

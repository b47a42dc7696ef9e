package surface

import "testing"

func TestMemoryListPrependAppendRemove(t *testing.T) {
	l := NewList()
	l.Append(Row{Key: "b"})
	l.Prepend(Row{Key: "a"})
	l.Append(Row{Key: "c"})

	if !l.Remove("b") {
		t.Fatal("expected remove to find b")
	}
	if l.Remove("missing") {
		t.Fatal("remove of missing key should report false")
	}
	rows := l.Rows()
	if len(rows) != 2 || rows[0].Key != "a" || rows[1].Key != "c" {
		t.Fatalf("unexpected rows: %#v", rows)
	}

	rows[0].Key = "mutated"
	if l.Rows()[0].Key != "a" {
		t.Fatal("Rows must return a copy")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected empty list after clear, got %d", l.Len())
	}
}

func TestMemoryElementState(t *testing.T) {
	e := NewElement("+")
	e.SetText("reset")
	e.SetHidden(true)
	e.SetActive(true)
	if e.Text() != "reset" || !e.Hidden() || !e.Active() {
		t.Fatalf("unexpected element state: %q hidden=%v active=%v", e.Text(), e.Hidden(), e.Active())
	}
}

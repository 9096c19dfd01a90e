package layout

import (
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		Addr string
		Want Position
	}{
		{
			Addr: "A1",
			Want: Position{Line: 1, Column: 1},
		},
		{
			Addr: "$AB$12",
			Want: Position{Line: 12, Column: 28},
		},
		{
			Addr: "'my sheet'!C3",
			Want: Position{Sheet: "my sheet", Line: 3, Column: 3},
		},
	}
	for _, c := range tests {
		got := ParsePosition(c.Addr)
		if got != c.Want {
			t.Errorf("%s: position mismatched! want %v, got %v", c.Addr, c.Want, got)
		}
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int64]string{
		1:     "A",
		26:    "Z",
		27:    "AA",
		702:   "ZZ",
		703:   "AAA",
		16384: "XFD",
	}
	for ix, want := range tests {
		got := ColumnName(ix)
		if got != want {
			t.Errorf("%d: column name mismatched! want %s, got %s", ix, want, got)
		}
		back, _ := ParseIndex(got)
		if back != ix {
			t.Errorf("%s: index mismatched! want %d, got %d", got, ix, back)
		}
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		Range Range
		Want  string
	}{
		{
			Range: RangeFromString("A1:B2"),
			Want:  "A1:B2",
		},
		{
			Range: RangeFromString("B2:A1"),
			Want:  "A1:B2",
		},
		{
			Range: RangeFromString("Sheet1!C3"),
			Want:  "Sheet1!C3",
		},
		{
			Range: RangeFromString("'data 2024'!A1:A10"),
			Want:  "'data 2024'!A1:A10",
		},
		{
			Range: RangeFromString("AB1!A1"),
			Want:  "'AB1'!A1",
		},
	}
	for _, c := range tests {
		got := c.Range.String()
		if got != c.Want {
			t.Errorf("range mismatched! want %s, got %s", c.Want, got)
		}
	}
}

func TestRangeIntersects(t *testing.T) {
	tests := []struct {
		Left  string
		Right string
		Want  bool
	}{
		{"A1:B2", "B2:C3", true},
		{"A1:B2", "C3:D4", false},
		{"A1:A10", "A5", true},
		{"Sheet1!A1:B2", "Sheet2!A1:B2", false},
	}
	for _, c := range tests {
		var (
			left  = RangeFromString(c.Left)
			right = RangeFromString(c.Right)
		)
		if got := left.Intersects(right); got != c.Want {
			t.Errorf("%s/%s: intersection mismatched! want %t, got %t", c.Left, c.Right, c.Want, got)
		}
	}
}

func TestEditShiftRange(t *testing.T) {
	tests := []struct {
		Edit  Edit
		Range string
		Want  string
		Ok    bool
	}{
		{
			Edit:  Edit{Kind: InsertRows, Sheet: "s", At: 1, Count: 2},
			Range: "s!A1:B2",
			Want:  "s!A3:B4",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: InsertRows, Sheet: "s", At: 2, Count: 2},
			Range: "s!A1:B2",
			Want:  "s!A1:B4",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: InsertRows, Sheet: "s", At: 5, Count: 2},
			Range: "s!A1:B2",
			Want:  "s!A1:B2",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: InsertRows, Sheet: "other", At: 1, Count: 2},
			Range: "s!A1:B2",
			Want:  "s!A1:B2",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: DeleteRows, Sheet: "s", At: 1, Count: 1},
			Range: "s!A3:A5",
			Want:  "s!A2:A4",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: DeleteRows, Sheet: "s", At: 4, Count: 3},
			Range: "s!A3:A5",
			Want:  "s!A3",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: DeleteRows, Sheet: "s", At: 2, Count: 2},
			Range: "s!A3:A5",
			Want:  "s!A2:A3",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: DeleteRows, Sheet: "s", At: 2, Count: 10},
			Range: "s!A3:A5",
			Ok:    false,
		},
		{
			Edit:  Edit{Kind: InsertColumns, Sheet: "s", At: 2, Count: 1},
			Range: "s!B1:C1",
			Want:  "s!C1:D1",
			Ok:    true,
		},
		{
			Edit:  Edit{Kind: DeleteColumns, Sheet: "s", At: 1, Count: 1},
			Range: "s!A1:C1",
			Want:  "s!A1:B1",
			Ok:    true,
		},
	}
	for _, c := range tests {
		got, ok := c.Edit.ShiftRange(RangeFromString(c.Range))
		if ok != c.Ok {
			t.Errorf("%s %s: deletion mismatched! want %t, got %t", c.Edit, c.Range, c.Ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if got.String() != c.Want {
			t.Errorf("%s %s: range mismatched! want %s, got %s", c.Edit, c.Range, c.Want, got)
		}
	}
}

func TestEditCuts(t *testing.T) {
	tests := []struct {
		Edit  Edit
		Range string
		Want  bool
	}{
		{Edit{Kind: InsertRows, Sheet: "s", At: 1, Count: 1}, "s!A1:A3", false},
		{Edit{Kind: InsertRows, Sheet: "s", At: 2, Count: 1}, "s!A1:A3", true},
		{Edit{Kind: InsertRows, Sheet: "s", At: 4, Count: 1}, "s!A1:A3", false},
		{Edit{Kind: DeleteRows, Sheet: "s", At: 1, Count: 3}, "s!A1:A3", false},
		{Edit{Kind: DeleteRows, Sheet: "s", At: 2, Count: 1}, "s!A1:A3", true},
		{Edit{Kind: DeleteColumns, Sheet: "s", At: 1, Count: 1}, "s!A1:B1", true},
	}
	for _, c := range tests {
		got := c.Edit.Cuts(RangeFromString(c.Range))
		if got != c.Want {
			t.Errorf("%s %s: cut mismatched! want %t, got %t", c.Edit, c.Range, c.Want, got)
		}
	}
}

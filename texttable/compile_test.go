package texttable

import (
	"testing"

	"github.com/brltty-go/bridge"
)

func mustCompile(t *testing.T, source string) *Table {
	t.Helper()
	table, err := Compile(nil, "test", source)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return table
}

func TestRoundTrip(t *testing.T) {
	table := mustCompile(t, "char U+0041 1-7\nchar U+0061 1\n")
	if got := table.CellOf('A'); got != bridge.Dot1|bridge.Dot7 {
		t.Errorf("CellOf('A') = %v, want dots 1,7", got)
	}
	if got := table.CellOf('a'); got != bridge.Dot1 {
		t.Errorf("CellOf('a') = %v, want dot 1", got)
	}
	if got := table.CharOf(bridge.Dot1 | bridge.Dot7); got != 'A' {
		t.Errorf("CharOf(dots 1,7) = %q, want 'A'", got)
	}
}

func TestAliasCycleTerminates(t *testing.T) {
	table := mustCompile(t, "alias 'X' 'Y'\nalias 'Y' 'X'\n")
	got := table.CellOf('X')
	want := table.undefinedCell()
	if got != want {
		t.Errorf("CellOf('X') in alias cycle = %v, want undefined cell %v", got, want)
	}
}

func TestAliasChain(t *testing.T) {
	table := mustCompile(t, "char U+0041 1\nalias 'B' 'A'\n")
	if got := table.CellOf('B'); got != bridge.Dot1 {
		t.Errorf("CellOf('B') = %v, want dot 1 via alias", got)
	}
}

func TestBrailleRowPassthrough(t *testing.T) {
	table := mustCompile(t, "")
	if got := table.CellOf(0x2800 | 0x05); got != bridge.BrailleCell(0x05) {
		t.Errorf("CellOf(braille row) = %v, want 0x05", got)
	}
}

func TestDuplicateDefinitionIsError(t *testing.T) {
	_, err := Compile(nil, "test", "char U+0041 1\nchar U+0041 2\n")
	if err == nil {
		t.Fatal("expected duplicate-definition error")
	}
	if !bridge.IsKind(err, bridge.KindInput) {
		t.Errorf("error kind = %v, want KindInput", err)
	}
}

func TestUnsupportedDirective(t *testing.T) {
	_, err := Compile(nil, "test", "bogus 1 2\n")
	if err == nil {
		t.Fatal("expected unsupported-directive error")
	}
}

func TestNoneCellSkipsDefinition(t *testing.T) {
	table := mustCompile(t, "char U+0041 0\n")
	if table.IsDefined('A') {
		t.Errorf("char with cell '0' should not define a mapping")
	}
}

func TestEmptyCellParens(t *testing.T) {
	table := mustCompile(t, "char U+0041 (0)\n")
	if got := table.CellOf('A'); got != bridge.DotsNone {
		t.Errorf("CellOf('A') = %v, want empty cell", got)
	}
}

type mapLoader map[string]string

func (m mapLoader) Load(name string) (string, error) {
	s, ok := m[name]
	if !ok {
		return "", &notFoundError{name}
	}
	return s, nil
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return "not found: " + e.name }

func TestIncludeAndCycleDetection(t *testing.T) {
	loader := mapLoader{
		"base.tbl": "char U+0041 1\n",
		"loop.tbl": "include loop.tbl\n",
	}
	table, err := Compile(loader, "root", "include base.tbl\n")
	if err != nil {
		t.Fatalf("Compile with include: %v", err)
	}
	if got := table.CellOf('A'); got != bridge.Dot1 {
		t.Errorf("CellOf('A') after include = %v, want dot 1", got)
	}

	_, err = Compile(loader, "loop.tbl", "include loop.tbl\n")
	if err == nil {
		t.Fatal("expected include-cycle error")
	}
}

func TestConditionalGuard(t *testing.T) {
	table := mustCompile(t, "char U+0041 1\nifglyph 'A'\nchar U+0042 1-2\n")
	if got := table.CellOf('B'); got != (bridge.Dot1 | bridge.Dot2) {
		t.Errorf("CellOf('B') = %v, want dots 1,2 (guard satisfied)", got)
	}

	table2 := mustCompile(t, "char U+0041 1\nifnotglyph 'A'\nchar U+0042 1-2\n")
	if got := table2.CellOf('B'); got != table2.undefinedCell() {
		t.Errorf("CellOf('B') = %v, want undefined ('A' is defined, so ifnotglyph fails)", got)
	}
}

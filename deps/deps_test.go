package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRequirementLine_ExactVersion(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("pkg", "1.0"), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "pkg >= 1.0, <= 1.0\n" {
		t.Fatalf("Render()=%q", b.String())
	}
}

func TestRequirementLine_MinOnly(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependencyRange("pkg", "1.0", ""), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "pkg >= 1.0\n" {
		t.Fatalf("Render()=%q", b.String())
	}
}

func TestRequirementLine_MaxOnly(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependencyRange("pkg", "", "2.0"), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "pkg <= 2.0\n" {
		t.Fatalf("Render()=%q", b.String())
	}
}

func TestRequirementLine_NoVersions(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("tensorflow", ""), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "tensorflow\n" {
		t.Fatalf("Render()=%q", b.String())
	}
}

func TestLedger_InsertionOrderPreserved(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("zeta", "2.0"), true)
	l.Add(NewVersionedDependency("alpha", "1.0"), true)
	l.Add(NewVersionedDependencyRange("mid", "0.5", ""), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	want := "zeta >= 2.0, <= 2.0\nalpha >= 1.0, <= 1.0\nmid >= 0.5\n"
	if b.String() != want {
		t.Fatalf("Render()=%q, want %q", b.String(), want)
	}
}

func TestLedger_OverrideReplaces(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("pkg", "1.0"), true)
	l.Add(NewVersionedDependency("pkg", "2.0"), true)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "pkg >= 2.0, <= 2.0\n" {
		t.Fatalf("Render()=%q", b.String())
	}
	if l.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", l.Len())
	}
}

func TestLedger_NoOverrideKeepsFirst(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("pkg", "1.0"), true)
	l.Add(NewVersionedDependency("pkg", "2.0"), false)

	var b strings.Builder
	if err := l.Render(&b); err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if b.String() != "pkg >= 1.0, <= 1.0\n" {
		t.Fatalf("Render()=%q", b.String())
	}
}

func TestLedger_EmptyNameIgnored(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("  ", "1.0"), true)
	if l.Len() != 0 {
		t.Fatalf("Len()=%d, want 0", l.Len())
	}
}

func TestRenderFile(t *testing.T) {
	l := NewLedger()
	l.Add(NewVersionedDependency("pandas", "0.24"), true)

	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := l.RenderFile(path); err != nil {
		t.Fatalf("RenderFile() err=%v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if string(got) != "pandas >= 0.24, <= 0.24\n" {
		t.Fatalf("file=%q", got)
	}
}

func TestSetters(t *testing.T) {
	d := NewVersionedDependencyRange("pkg", "", "")
	if d.HasVersions() {
		t.Fatalf("HasVersions() expected false")
	}
	d.SetMinVersion("1.1")
	d.SetMaxVersion("2.2")
	if !d.HasMinVersion() || !d.HasMaxVersion() {
		t.Fatalf("expected both bounds set")
	}
	if d.MinVersion() != "1.1" || d.MaxVersion() != "2.2" {
		t.Fatalf("bounds=%q,%q", d.MinVersion(), d.MaxVersion())
	}
}

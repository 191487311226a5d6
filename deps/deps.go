// Package deps tracks versioned package dependencies for a generated
// component image and renders them as a pip requirements listing.
package deps

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// VersionedDependency pins a single package to an optional version range.
// Declaring an exact version sets both bounds to it.
type VersionedDependency struct {
	name       string
	minVersion string
	maxVersion string
}

// NewVersionedDependency declares a dependency pinned to an exact version.
// An empty version leaves the dependency unconstrained.
func NewVersionedDependency(name, version string) VersionedDependency {
	d := VersionedDependency{name: strings.TrimSpace(name)}
	if strings.TrimSpace(version) != "" {
		d.minVersion = strings.TrimSpace(version)
		d.maxVersion = d.minVersion
	}
	return d
}

// NewVersionedDependencyRange declares a dependency with independent bounds.
// Either bound may be empty.
func NewVersionedDependencyRange(name, minVersion, maxVersion string) VersionedDependency {
	return VersionedDependency{
		name:       strings.TrimSpace(name),
		minVersion: strings.TrimSpace(minVersion),
		maxVersion: strings.TrimSpace(maxVersion),
	}
}

func (d VersionedDependency) Name() string { return d.name }

func (d VersionedDependency) MinVersion() string { return d.minVersion }

func (d VersionedDependency) MaxVersion() string { return d.maxVersion }

func (d *VersionedDependency) SetMinVersion(v string) { d.minVersion = strings.TrimSpace(v) }

func (d *VersionedDependency) SetMaxVersion(v string) { d.maxVersion = strings.TrimSpace(v) }

func (d VersionedDependency) HasMinVersion() bool { return d.minVersion != "" }

func (d VersionedDependency) HasMaxVersion() bool { return d.maxVersion != "" }

func (d VersionedDependency) HasVersions() bool { return d.HasMinVersion() || d.HasMaxVersion() }

// requirementLine renders `name [>= min][, <= max]` with the trailing
// separator stripped.
func (d VersionedDependency) requirementLine() string {
	var b strings.Builder
	b.WriteString(d.name)
	if d.HasMinVersion() {
		b.WriteString(" >= ")
		b.WriteString(d.minVersion)
		b.WriteString(",")
	}
	if d.HasMaxVersion() {
		b.WriteString(" <= ")
		b.WriteString(d.maxVersion)
		b.WriteString(",")
	}
	return strings.TrimSuffix(b.String(), ",")
}

// Ledger holds named dependencies in insertion order. The rendered
// requirements listing reproduces that order verbatim.
type Ledger struct {
	order  []string
	byName map[string]VersionedDependency
}

func NewLedger() *Ledger {
	return &Ledger{byName: make(map[string]VersionedDependency)}
}

// Add inserts or replaces the entry for dep's name. When override is false
// and the name is already present, the call is a no-op: the earlier entry
// wins entirely and version ranges are never merged.
func (l *Ledger) Add(dep VersionedDependency, override bool) {
	if dep.name == "" {
		return
	}
	if _, ok := l.byName[dep.name]; ok {
		if !override {
			return
		}
		l.byName[dep.name] = dep
		return
	}
	l.order = append(l.order, dep.name)
	l.byName[dep.name] = dep
}

func (l *Ledger) Len() int { return len(l.order) }

// Render writes one requirements line per entry, in insertion order.
func (l *Ledger) Render(w io.Writer) error {
	for _, name := range l.order {
		if _, err := fmt.Fprintln(w, l.byName[name].requirementLine()); err != nil {
			return err
		}
	}
	return nil
}

// RenderFile writes the requirements listing to path.
func (l *Ledger) RenderFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

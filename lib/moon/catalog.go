// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package moon

import "fmt"

// Phase is a catalog entry: the display name and emoji for an Index.
type Phase struct {
	Index  Index  `json:"index"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// catalog is indexed by Index. Entries 5 and 6 intentionally share a
// name.
var catalog = [PhaseCount]Phase{
	{Index: 0, Name: "New Moon", Symbol: "\U0001F311"},
	{Index: 1, Name: "Waxing Crescent Moon", Symbol: "\U0001F312"},
	{Index: 2, Name: "First Quarter Moon", Symbol: "\U0001F313"},
	{Index: 3, Name: "Waxing Gibbous Moon", Symbol: "\U0001F315"},
	{Index: 4, Name: "Full Moon", Symbol: "\U0001F316"},
	{Index: 5, Name: "Waning Gibbous Moon", Symbol: "\U0001F314"},
	{Index: 6, Name: "Waning Gibbous Moon", Symbol: "\U0001F317"},
	{Index: 7, Name: "Waning Crescent Moon", Symbol: "\U0001F318"},
}

// Lookup returns the catalog entry for index. An index outside
// [0, PhaseCount) can only come from a bug in [Compute] and panics.
func Lookup(index Index) Phase {
	if int(index) >= len(catalog) {
		panic(fmt.Sprintf("moon: phase index %d outside catalog [0, %d)", index, len(catalog)))
	}
	return catalog[index]
}

// Phases returns a copy of the full catalog in index order.
func Phases() []Phase {
	phases := make([]Phase, len(catalog))
	copy(phases, catalog[:])
	return phases
}

// String returns the catalog name of the index.
func (i Index) String() string {
	if int(i) >= len(catalog) {
		return fmt.Sprintf("Index(%d)", uint8(i))
	}
	return catalog[i].Name
}

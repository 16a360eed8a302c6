// pkg/util/util_test.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"testing"
)

func TestSortedMapKeys(t *testing.T) {
	m := map[int]string{3: "c", 0: "a", 7: "d", 1: "b"}
	if k := SortedMapKeys(m); !slices.Equal(k, []int{0, 1, 3, 7}) {
		t.Errorf("unexpected keys: %v", k)
	}
}

func TestDeleteSliceElement(t *testing.T) {
	s := []int{0, 1, 2, 3, 4}
	s = DeleteSliceElement(s, 2)
	if !slices.Equal(s, []int{0, 1, 3, 4}) {
		t.Errorf("unexpected slice: %v", s)
	}
	s = DeleteSliceElement(s, 3)
	if !slices.Equal(s, []int{0, 1, 3}) {
		t.Errorf("unexpected slice: %v", s)
	}
	s = DeleteSliceElement(s, 0)
	if !slices.Equal(s, []int{1, 3}) {
		t.Errorf("unexpected slice: %v", s)
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Error("fresh ErrorLogger reports errors")
	}

	e.Push("route 3")
	e.Push("scenario Accident_0")
	e.ErrorString("bad attribute %q", "distance")
	e.Pop()
	e.ErrorString("no waypoints")
	e.Pop()

	if !e.HaveErrors() {
		t.Error("expected errors")
	}
	s := e.String()
	want := "route 3 / scenario Accident_0: bad attribute \"distance\"\nroute 3: no waypoints"
	if s != want {
		t.Errorf("got %q, expected %q", s, want)
	}
}

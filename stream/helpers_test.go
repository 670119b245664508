// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"sort"
	"testing"
)

//
// Test helpers
//

func assertSlice[T comparable](t *testing.T, what string, expected []T, actual []T) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("assertSlice[%s]: expected %d items, got %d (%v)", what, len(expected), len(actual), actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("assertSlice[%s]: at index %d, expected %v, got %v", what, i, expected[i], actual[i])
		}
	}
}

func assertSortedInts(t *testing.T, what string, expected []int, actual []int) {
	t.Helper()
	sorted := append([]int(nil), actual...)
	sort.Ints(sorted)
	assertSlice(t, what, expected, sorted)
}

func assertNil(t *testing.T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error in %s: %s", what, err)
	}
}

func assertError(t *testing.T, what string, expected error, err error) {
	t.Helper()
	if !errors.Is(err, expected) {
		t.Fatalf("%s: expected error %q, got %v", what, expected, err)
	}
}

func checkCancelled(t *testing.T, what string, src Observable[int]) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ToSlice(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("%s: expected Canceled error, got %v", what, err)
	}
	assertSlice(t, what, []int{}, result)
}

// stuck never emits and waits for the context to be cancelled.
func stuck[T any]() Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			<-ctx.Done()
			return ctx.Err()
		})
}

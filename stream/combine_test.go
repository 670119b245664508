// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestConcat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. successful case
	res1, err := ToSlice(ctx, Concat(Just(1), Just(2), Just(3)))
	if err != nil {
		t.Fatalf("case 1 errored: %s", err)
	}
	assertSlice(t, "case 1", res1, []int{1, 2, 3})

	// 2. test cancelled concat
	checkCancelled(t, "case 2", Concat(Just(1), stuck[int]()))

	// 3. test empty concat
	res3, err := ToSlice(ctx, Concat[int]())
	if err != nil {
		t.Fatalf("case 3 errored: %s", err)
	}
	assertSlice(t, "case 3", []int{}, res3)
}

func TestMerge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expected := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}

	in1 := FromSlice(expected[0:3])
	in2 := FromSlice(expected[3:6])
	in3 := FromSlice(expected[6:9])

	// 1. successful merge
	out1, err := ToSlice(ctx, Merge(in1, in2, in3))
	assertNil(t, "case 1", err)
	// items are observed in non-deterministic order, so we'll
	// need to sort first to verify.
	sort.Slice(out1, func(i, j int) bool { return out1[i] < out1[j] })
	assertSlice(t, "case 1", expected, out1)

	// 2. downstream error
	stopErr := errors.New("stop")
	calls := 0
	err = Merge(in1, in2, in3).Observe(
		ctx,
		func(x int) error { calls++; return stopErr })
	if !errors.Is(err, stopErr) {
		t.Fatalf("expected downstream error %s, got %s", stopErr, err)
	}
	if calls != 1 {
		t.Fatalf("expected 'next' to be called once after an error, got %d calls", calls)
	}

	// 3. upstream error
	_, err = ToSlice(ctx, Merge(in1, Error[int](stopErr)))
	if !errors.Is(err, stopErr) {
		t.Fatalf("expected upstream error %s, got %s", stopErr, err)
	}

	// 4. empty merge
	out4, err := ToSlice(ctx, Merge[int]())
	assertNil(t, "case 4", err)
	assertSlice(t, "case 4", []int{}, out4)

	// 5. cancelled context
	cancel()
	_, err = ToSlice(ctx, Merge(in1, in2, in3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled error, got %s", err)
	}
}

func TestMergeKeepsPerSourceOrder(t *testing.T) {
	letters := FromSlice([]string{"a", "b", "c", "d"})
	digits := FromSlice([]string{"1", "2", "3"})

	out, err := ToSlice(context.TODO(), MergeWith(letters, digits))
	assertNil(t, "MergeWith", err)
	if len(out) != 7 {
		t.Fatalf("expected 7 items, got %v", out)
	}

	var gotLetters, gotDigits []string
	for _, s := range out {
		if s >= "a" {
			gotLetters = append(gotLetters, s)
		} else {
			gotDigits = append(gotDigits, s)
		}
	}
	assertSlice(t, "letters", []string{"a", "b", "c", "d"}, gotLetters)
	assertSlice(t, "digits", []string{"1", "2", "3"}, gotDigits)
}

func TestZip2(t *testing.T) {
	// 1. Non-empty sources
	src := Zip2(Range(0, 5), Range(5, 10))
	xs, err := ToSlice(context.TODO(), src)
	assertNil(t, "case 1", err)
	assertSlice(t, "case 1",
		[]Tuple2[int, int]{
			{0, 5},
			{1, 6},
			{2, 7},
			{3, 8},
			{4, 9},
		},
		xs)

	// 2. One shorter than the other
	src = Zip2(Range(0, 5), Just(5))
	xs, err = ToSlice(context.TODO(), src)
	assertNil(t, "case 2", err)
	assertSlice(t, "case 2",
		[]Tuple2[int, int]{
			{0, 5},
		},
		xs)

	// 3. One empty
	src = Zip2(Range(0, 5), Empty[int]())
	xs, err = ToSlice(context.TODO(), src)
	assertNil(t, "case 3", err)
	assertSlice(t, "case 3",
		[]Tuple2[int, int]{},
		xs)

	// 4. Cancelled context
	checkCancelled(t, "case 4",
		Map(Zip2(Range(0, 5), stuck[int]()), func(t Tuple2[int, int]) int { return t.V1 }),
	)

	// 5. Failing source
	boom := errors.New("boom")
	_, err = ToSlice(context.TODO(), Zip2(Range(0, 5), Concat(Just(1), Error[int](boom))))
	assertError(t, "case 5", boom, err)

	// 6. Downstream error
	stop := errors.New("stop")
	err = Zip2(Range(0, 5), Range(0, 5)).Observe(context.TODO(), func(Tuple2[int, int]) error { return stop })
	assertError(t, "case 6", stop, err)
}

func TestZip3(t *testing.T) {
	src := Zip3(Just(1), FromSlice([]string{"a", "b"}), Range(10, 20))
	xs, err := ToSlice(context.TODO(), src)
	assertNil(t, "Zip3", err)
	assertSlice(t, "Zip3",
		[]Tuple3[int, string, int]{{1, "a", 10}},
		xs)

	sum := Map(Zip3(Just(1), Just(2), Just(3)), func(t Tuple3[int, int, int]) int {
		return t.V1 + t.V2 + t.V3
	})
	xs2, err := ToSlice(context.TODO(), sum)
	assertNil(t, "Zip3 sum", err)
	assertSlice(t, "Zip3 sum", []int{6}, xs2)
}

//
// Benchmarks
//

func BenchmarkMerge(b *testing.B) {
	ctx := context.Background()
	s := make([]int, b.N)
	b.ResetTimer()

	count := 0
	err := Merge(FromSlice(s)).Observe(
		ctx,
		func(item int) error {
			count++
			return nil
		})

	if err != nil {
		b.Fatal(err)
	}

	if count != b.N {
		b.Fatalf("expected %d items, got %d", b.N, count)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

// Tuple2 pairs same-index items from Zip2.
type Tuple2[V1, V2 any] struct {
	V1 V1
	V2 V2
}

// Tuple3 groups same-index items from Zip3.
type Tuple3[V1, V2, V3 any] struct {
	V1 V1
	V2 V2
	V3 V3
}

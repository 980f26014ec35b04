// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// BuildChunked builds the graph in slices of at most slice wall-clock time,
// yielding the processor between slices and calling onProgress after each
// one. Cancellation is honored only between slices. The result equals
// Build(cats, opts).
func BuildChunked(ctx context.Context, cats []models.Category, opts Options, slice time.Duration, onProgress func(Progress)) (models.Graph, error) {
	if slice <= 0 {
		slice = DefaultSlice
	}
	b := NewBuilder(cats, opts)
	for {
		done := b.Step(slice)
		if onProgress != nil {
			onProgress(b.Progress())
		}
		if done {
			return b.Result(), nil
		}
		select {
		case <-ctx.Done():
			return models.Graph{}, fmt.Errorf("chunked build at %d/%d: %w", b.Progress().Processed, b.Progress().Total, ctx.Err())
		default:
		}
		runtime.Gosched()
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"slices"
	"strconv"
	"strings"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// StructuralHash fingerprints codes, parents and labels. Position-only
// changes keep the hash stable, which lets a cached render graph survive
// drags.
func StructuralHash(cats []models.Category) string {
	return fingerprint(cats, false)
}

// ContentHash fingerprints the whole collection including positions.
func ContentHash(cats []models.Category) string {
	return fingerprint(cats, true)
}

func fingerprint(cats []models.Category, withPositions bool) string {
	order := make([]int, len(cats))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return strings.Compare(cats[a].Code, cats[b].Code)
	})

	h := sha256.New()
	for _, i := range order {
		c := cats[i]
		write(h, c.Code, c.Parent)
		labels := slices.Clone(c.Labels)
		slices.SortStableFunc(labels, func(a, b models.Label) int {
			return strings.Compare(a.Language, b.Language)
		})
		for _, l := range labels {
			write(h, l.Language, l.Text)
		}
		if withPositions && c.Position != nil {
			write(h,
				strconv.FormatFloat(c.Position.X, 'g', -1, 64),
				strconv.FormatFloat(c.Position.Y, 'g', -1, 64))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func write(h hash.Hash, fields ...string) {
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
}

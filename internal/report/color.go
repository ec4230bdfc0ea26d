// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"

	"github.com/fatih/color"
)

// Shared color printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// colorScore colors a normalized score: the hotter the share of total
// change activity, the louder the color.
func colorScore(val string) string {
	var s float64
	if _, err := fmt.Sscanf(val, "%f", &s); err != nil {
		return val
	}
	switch {
	case s >= 0.10:
		return colorRed.Sprint(val)
	case s >= 0.05:
		return colorYellow.Sprint(val)
	default:
		return val
	}
}

// colorCount colors a count: 0 is green, >0 is yellow.
func colorCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n == 0 {
		return colorGreen.Sprint(s)
	}
	return colorYellow.Sprint(s)
}

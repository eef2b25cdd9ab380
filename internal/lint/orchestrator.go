package lint

import (
	"context"
	"errors"
)

// Region is one sub-language slice of a buffer's text: a line offset for
// diagnostic remapping plus start and end offsets into the buffer text.
type Region struct {
	LineOffset int
	Start      int
	End        int
}

// Callback receives the result of a lint pass: the buffer and every checker
// instance that participated, whole-buffer and scoped alike, so the
// presentation layer can draw or clear marks.
type Callback func(buf BufferID, instances []*Instance)

// LintBuffer runs every checker assigned to a buffer and delivers the
// merged result to the callback.
//
// No-op when code is empty or the buffer has no assignment. Whole-buffer
// checkers run against the full code. Scoped checkers run once per region
// listed under their selector, with diagnostics remapped by each region's
// line offset; merging is in region-list order and a later region replaces
// an earlier one on the same corrected row. Checkers disabled via settings
// are skipped entirely, leaving their previous diagnostics stale by design.
//
// A contract violation from a broken definition is logged loudly and stops
// that checker only; the pass continues.
func (m *Manager) LintBuffer(ctx context.Context, buf BufferID, filename, code string, regions map[string][]Region, cb Callback) {
	if code == "" {
		return
	}

	instances := m.Instances(buf)
	if len(instances) == 0 {
		return
	}

	if filename == "" {
		filename = "untitled"
	}

	m.logger.Debug("lint '%s' as %s", filename, names(instances))

	for _, in := range instances {
		if in.Disabled() {
			continue
		}
		if in.Definition().Selector != "" {
			continue
		}

		in.Reset(code, filename)
		if err := in.Lint(ctx); err != nil {
			m.reportViolation(err)
		}
	}

	// Scoped checkers come from the same snapshot of the assignment the
	// pass started with, so a concurrent reassignment cannot split the
	// pass across two instance sets.
	for _, pair := range selectorPairs(instances) {
		in := pair.Instance
		if in.Disabled() {
			continue
		}

		sectionList, ok := regions[pair.Selector]
		if !ok {
			continue
		}

		in.Reset(code, filename)
		merged := make(map[int][]LineError)

		for _, region := range sectionList {
			start, end := clampRegion(region, len(code))
			in.Highlight().MoveTo(region.LineOffset, columnOf(code, start))
			in.SetCode(code[start:end])
			in.ClearErrors()

			if err := in.Lint(ctx); err != nil {
				m.reportViolation(err)
				break
			}

			// Later regions win ties on the same corrected row.
			for row, errs := range in.Errors() {
				merged[row+region.LineOffset] = errs
			}
		}

		in.setErrors(merged)
	}

	if cb != nil {
		cb(buf, instances)
	}
}

// Go runs a lint pass on its own goroutine and marshals the callback
// through the manager's dispatch function, keeping subprocess execution off
// the interactive path while letting the owner thread apply the result.
//
// The pass targets the instance set it reads at start; if the buffer closes
// or is reassigned mid-flight the stale set still receives the merge and a
// later assignment simply supersedes it. A removed buffer is never
// resurrected because the pass mutates instances, not the assignment table.
func (m *Manager) Go(ctx context.Context, buf BufferID, filename, code string, regions map[string][]Region, cb Callback) {
	go func() {
		m.LintBuffer(ctx, buf, filename, code, regions, func(b BufferID, instances []*Instance) {
			m.dispatch(func() {
				if cb != nil {
					cb(b, instances)
				}
			})
		})
	}()
}

// reportViolation surfaces a contract violation loudly; anything else
// degrades to a debug record.
func (m *Manager) reportViolation(err error) {
	if errors.Is(err, ErrNotLintable) {
		m.logger.Error("%v", err)
		return
	}
	m.logger.Debug("%v", err)
}

// clampRegion bounds a region's offsets to the code length.
func clampRegion(r Region, max int) (int, int) {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > max {
		end = max
	}
	if end < start {
		end = start
	}
	return start, end
}

// columnOf returns the character column of a byte offset within its line.
func columnOf(code string, offset int) int {
	lineStart := offset
	for lineStart > 0 && code[lineStart-1] != '\n' {
		lineStart--
	}
	return len([]rune(code[lineStart:offset]))
}

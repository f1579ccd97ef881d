package reconcile

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Loader builds the keyed index of one source.
type Loader[T any] func(ctx context.Context) (map[string]T, error)

// CompareFunc lists the fields that differ between a snapshot and a live item.
type CompareFunc[T any] func(snapshot, live T) []string

// Reconcile loads both indices concurrently and compares them key by key.
func Reconcile[T any](ctx context.Context, live, snapshot Loader[T], compare CompareFunc[T]) (*Report, error) {
	var liveIndex, snapIndex map[string]T

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := live(gctx)
		if err != nil {
			return fmt.Errorf("failed to load live index: %w", err)
		}
		liveIndex = idx
		return nil
	})
	g.Go(func() error {
		idx, err := snapshot(gctx)
		if err != nil {
			return fmt.Errorf("failed to load snapshot index: %w", err)
		}
		snapIndex = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Compare(liveIndex, snapIndex, compare), nil
}

// Compare reconciles two loaded indices.
func Compare[T any](live, snapshot map[string]T, compare CompareFunc[T]) *Report {
	union := make(map[string]struct{}, len(live))
	for key := range live {
		union[key] = struct{}{}
	}
	for key := range snapshot {
		union[key] = struct{}{}
	}

	report := &Report{Drifted: []Result{}}
	for key := range union {
		l, inLive := live[key]
		s, inSnap := snapshot[key]
		result := Result{
			Key:             key,
			LivePresent:     inLive,
			SnapshotPresent: inSnap,
			Mismatch:        []string{},
		}
		if inLive && inSnap && compare != nil {
			if diff := compare(s, l); len(diff) > 0 {
				result.Mismatch = diff
			}
		}

		report.Summary.Total++
		switch result.Status() {
		case StatusOK:
			report.Summary.Matched++
			continue
		case StatusMissingSnapshot:
			report.Summary.MissingSnapshot++
		case StatusStale:
			report.Summary.Stale++
		case StatusMismatch:
			report.Summary.Mismatched++
		}
		report.Drifted = append(report.Drifted, result)
	}

	sort.Slice(report.Drifted, func(i, j int) bool {
		return report.Drifted[i].Key < report.Drifted[j].Key
	})
	return report
}

// Field formats one mismatch when the values differ. It returns "" otherwise.
func Field[V comparable](name string, snapshot, live V) string {
	if snapshot == live {
		return ""
	}
	return fmt.Sprintf("%s: snapshot=%v live=%v", name, snapshot, live)
}

// Fields drops the empty entries produced by Field.
func Fields(diffs ...string) []string {
	var out []string
	for _, d := range diffs {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

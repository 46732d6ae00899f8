package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("token123"),
		render.Hidden(" step ", 2),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"step":     "2",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "step", Value: "2"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if render.MergeHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

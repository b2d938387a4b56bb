package answer

import "testing"

func TestRewriteInlineCitations_Resolved(t *testing.T) {
	refs := map[int]string{1: "CDC factsheet", 2: "NIH study"}
	body, inline := RewriteInlineCitations("Lowers glucose [1] and weight [2].", refs)

	if body != "Lowers glucose ^[1] and weight ^[2]." {
		t.Fatalf("unexpected body: %q", body)
	}
	if len(inline) != 2 {
		t.Fatalf("expected two inline refs, got %v", inline)
	}
	if !inline[0].Resolved || inline[0].Text != "CDC factsheet" {
		t.Errorf("unexpected first ref: %+v", inline[0])
	}
}

func TestRewriteInlineCitations_UnresolvedKeptVisible(t *testing.T) {
	body, inline := RewriteInlineCitations("A claim [7].", map[int]string{1: "only one"})

	if body != "A claim ^[7]." {
		t.Fatalf("expected marker rendered even when unresolved, got %q", body)
	}
	if len(inline) != 1 || inline[0].Number != 7 || inline[0].Resolved || inline[0].Text != "" {
		t.Fatalf("expected unresolved ref listed, got %v", inline)
	}
}

func TestRewriteInlineCitations_RepeatListedOnce(t *testing.T) {
	body, inline := RewriteInlineCitations("[1] and [1] again", map[int]string{1: "x"})
	if body != "^[1] and ^[1] again" {
		t.Fatalf("unexpected body: %q", body)
	}
	if len(inline) != 1 {
		t.Fatalf("expected one listed ref for repeated marker, got %v", inline)
	}
}

func TestRewriteInlineCitations_SourceMarkersUntouched(t *testing.T) {
	body, inline := RewriteInlineCitations("Per [Source 1], it works.", nil)
	if body != "Per [Source 1], it works." {
		t.Fatalf("[Source N] markers must not be rewritten: %q", body)
	}
	if len(inline) != 0 {
		t.Fatalf("expected no inline refs, got %v", inline)
	}
}

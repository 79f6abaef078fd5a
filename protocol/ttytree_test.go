package protocol

import "testing"

func TestTTYTreeFocusedClientExactPath(t *testing.T) {
	tree := NewTTYTree()
	c := &Client{}
	tree.Attach([]int{1, 2}, c)
	if got := tree.FocusedClient([]int{1, 2}); got != c {
		t.Fatalf("got %v, want %v", got, c)
	}
}

func TestTTYTreeFocusedClientAncestorFallback(t *testing.T) {
	tree := NewTTYTree()
	parent := &Client{}
	tree.Attach([]int{1}, parent)
	if got := tree.FocusedClient([]int{1, 2, 3}); got != parent {
		t.Fatalf("expected ancestor fallback to parent, got %v", got)
	}
}

func TestTTYTreeDetachRevertsToAncestor(t *testing.T) {
	tree := NewTTYTree()
	parent := &Client{}
	child := &Client{}
	tree.Attach([]int{1}, parent)
	tree.Attach([]int{1, 2}, child)
	tree.Detach([]int{1, 2}, child)
	if got := tree.FocusedClient([]int{1, 2}); got != parent {
		t.Fatalf("expected fallback to parent after detach, got %v", got)
	}
}

func TestTTYTreeDetachIgnoresMismatchedClient(t *testing.T) {
	tree := NewTTYTree()
	a := &Client{}
	b := &Client{}
	tree.Attach([]int{1}, a)
	tree.Detach([]int{1}, b) // b was never attached here
	if got := tree.FocusedClient([]int{1}); got != a {
		t.Fatal("expected detach by a non-owning client to be a no-op")
	}
}

func TestTTYTreeNoFocusReturnsNil(t *testing.T) {
	tree := NewTTYTree()
	if got := tree.FocusedClient([]int{9}); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

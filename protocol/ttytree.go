package protocol

import "sync"

// TTYTree is the global `ttyPath -> activeClient` mapping (spec
// §4.5.4): TTY identifiers form a tree, and only the deepest client on a
// path receives key events for it while focused.
type TTYTree struct {
	mu   sync.Mutex
	root *ttyNode
}

type ttyNode struct {
	children map[int]*ttyNode
	client   *Client
}

func newTTYNode() *ttyNode {
	return &ttyNode{children: make(map[int]*ttyNode)}
}

// NewTTYTree returns an empty tree.
func NewTTYTree() *TTYTree {
	return &TTYTree{root: newTTYNode()}
}

// Attach records client as the active client at path, creating
// intermediate nodes as needed. It becomes the focused client for that
// exact path (spec §4.5.4).
func (t *TTYTree) Attach(path []int, client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.root
	for _, id := range path {
		child, ok := n.children[id]
		if !ok {
			child = newTTYNode()
			n.children[id] = child
		}
		n = child
	}
	n.client = client
}

// Detach removes client from whatever path it was attached to. Focus at
// that path reverts to the nearest ancestor's client, found lazily by
// FocusedClient walking upward (spec §4.5.4).
func (t *TTYTree) Detach(path []int, client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.walk(path)
	if n != nil && n.client == client {
		n.client = nil
	}
}

// FocusedClient returns the client that should receive key events for
// path: the deepest node along path with a non-nil client, i.e. the
// attached client itself or, failing that, its nearest attached
// ancestor.
func (t *TTYTree) FocusedClient(path []int) *Client {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.root
	var best *Client
	if n.client != nil {
		best = n.client
	}
	for _, id := range path {
		child, ok := n.children[id]
		if !ok {
			break
		}
		n = child
		if n.client != nil {
			best = n.client
		}
	}
	return best
}

func (t *TTYTree) walk(path []int) *ttyNode {
	n := t.root
	for _, id := range path {
		child, ok := n.children[id]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

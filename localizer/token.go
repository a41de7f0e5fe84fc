package localizer

import (
	"slices"

	"github.com/sarchlab/akita/v4/sim"
)

// A Token carries a suspicion through the mesh. An empty path marks a fresh
// suspicion that no router has vouched for yet. A non-empty path lists the
// routers that found their own endpoint implicated, in visiting order.
type Token struct {
	ID   string
	Path []int
}

// NewToken creates a fresh token.
func NewToken() Token {
	return Token{ID: sim.GetIDGenerator().Generate()}
}

// IsFresh checks if no router has been added to the path.
func (t Token) IsFresh() bool {
	return len(t.Path) == 0
}

// Contains checks if a router is on the path.
func (t Token) Contains(router int) bool {
	return slices.Contains(t.Path, router)
}

// Extend returns a copy of the token with the router appended to the path.
// The receiver is left untouched.
func (t Token) Extend(router int) Token {
	path := make([]int, len(t.Path), len(t.Path)+1)
	copy(path, t.Path)

	return Token{
		ID:   t.ID,
		Path: append(path, router),
	}
}

// tokenQueue is an unbounded deque of tokens.
type tokenQueue struct {
	items []Token
}

func (q *tokenQueue) Len() int {
	return len(q.items)
}

func (q *tokenQueue) PushFront(t Token) {
	q.items = append(q.items, Token{})
	copy(q.items[1:], q.items)
	q.items[0] = t
}

func (q *tokenQueue) PushBack(t Token) {
	q.items = append(q.items, t)
}

func (q *tokenQueue) PopFront() Token {
	if len(q.items) == 0 {
		panic("pop from empty token queue")
	}

	t := q.items[0]
	q.items[0] = Token{}
	q.items = q.items[1:]

	return t
}

// Snapshot returns a copy of the queued tokens, front first.
func (q *tokenQueue) Snapshot() []Token {
	return append([]Token(nil), q.items...)
}

// Clean keeps every token that carries a path. A fresh token is kept only if
// nothing was kept before it.
func (q *tokenQueue) Clean() {
	kept := q.items[:0]
	for _, t := range q.items {
		if !t.IsFresh() || len(kept) == 0 {
			kept = append(kept, t)
		}
	}

	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = Token{}
	}

	q.items = kept
}

package db_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
)

// node is a minimal registrable element.
type node struct {
	db.Base
	name string
}

func newNode(d *db.DB, name string) *node {
	return &node{Base: db.NewBase(d), name: name}
}

func (n *node) String() string { return n.name }

func (n *node) DBString() string { return fmt.Sprintf("(node %d %s)", n.ID(), n.name) }

// leaf is a second concrete type, used for type-mismatch checks.
type leaf struct {
	db.Base
}

func (l *leaf) String() string   { return "leaf" }
func (l *leaf) DBString() string { return fmt.Sprintf("(leaf %d)", l.ID()) }

// group is a minimal vocabulary entry owning nodes.
type group struct {
	db.Base
	name    string
	members []*node
	owner   map[*node]db.ID
}

func newGroup(d *db.DB, name string, members ...*node) *group {
	return &group{Base: db.NewBase(d), name: name, members: members, owner: map[*node]db.ID{}}
}

func (g *group) String() string   { return g.name }
func (g *group) DBString() string { return fmt.Sprintf("(group %d %s)", g.ID(), g.name) }
func (g *group) Name() string     { return g.name }

func (g *group) Members() []db.Element {
	out := make([]db.Element, len(g.members))
	for i, m := range g.members {
		out[i] = m
	}
	return out
}

func (g *group) BindMembers() {
	for _, m := range g.members {
		g.owner[m] = g.ID()
	}
}

func newTestDB(t *testing.T, opts ...db.Option) *db.DB {
	t.Helper()
	opts = append([]db.Option{db.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	d, err := db.New(opts...)
	require.NoError(t, err)
	return d
}

package executor

import (
	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/store"
)

// Deps carries the collaborators every domain tool needs.
type Deps struct {
	Store    *store.Store
	Resolver *resolve.Resolver
}

// Package relation provides the RelationshipIndex: a parent->child DAG over
// EntityIDs with cached, lazily rebuilt transitive closures.
//
// Direct adjacency (parents, children, degree checks) is always consistent
// and is read under a shared lock. Closure queries (FindRelated,
// FindAncestors, FindDescendants, GetPartMembers) need the cache to be
// Valid; if any mutation has left it Dirty, the first such query takes the
// exclusive lock and rebuilds every closure before answering. A rebuild is
// never partially published.
//
// Edge insertion on a Valid cache extends the affected closures in place.
// Edge removal and node detachment always mark the cache Dirty, since a
// removed edge may break arbitrarily many cached paths.
//
// Nodes are classified by EntityType for typed queries. When a TypeResolver
// is supplied (normally the entity.Index), its answer wins over the type
// given at registration.
package relation

package schema

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// namespace is the fixed UUID v5 namespace for all deterministic
// skillmap identifiers. Derived once from the project domain so IDs
// are stable across runs and machines.
var namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("skillmap.edugraph.io"))

// UUID5 returns the deterministic UUID v5 of a string within the
// skillmap namespace.
func UUID5(s string) string {
	return uuid.NewSHA1(namespace, []byte(s)).String()
}

// GroupID returns the deterministic identifier of an equivalence
// group: UUID v5 over the sorted member skill IDs. An unchanged
// partition reproduces identical group IDs.
func GroupID(memberIDs []string) string {
	ids := make([]string, len(memberIDs))
	copy(ids, memberIDs)
	sort.Strings(ids)
	return UUID5("group|" + strings.Join(ids, "|"))
}

// ConceptID returns the deterministic identifier of a master concept
// derived from an equivalence group.
func ConceptID(groupID string) string {
	return UUID5("concept|" + groupID)
}

// NodeID returns the deterministic identifier of a taxonomy node
// from its full path.
func NodeID(path string) string {
	return UUID5("node|" + path)
}

// Package dependencyGraph turns the flat dependency edges of a document into
// the rooted tree of a canonical SBOM.
package dependencyGraph

import (
	"github.com/Checkmarx/sbom-translator/pkg/sbomModel"
	"github.com/rs/zerolog/log"
)

// Edge is a declared "Parent depends on Child" pair. Edges are consumed by
// Build and never stored in the SBOM as such.
type Edge struct {
	Parent string
	Child  string
}

type builder struct {
	sbom *sbomModel.SBOM
	// attached holds every id that already has a place in the tree.
	attached map[string]bool
}

// Build attaches every component of s to the tree below s.RootComponentID.
//
// Declared edges are resolved in order into s.Dependencies; edges naming an
// unknown component are dropped and reported. The tree is grown from a stack
// with an owned visited set, and each parent claims all its pending children
// before descending. So in a diamond R->A, R->B, A->B the component B stays a
// tree child of R, and A->B is kept in s.Dependencies only. Cycle edges are
// handled the same way. Components the traversal never reaches are adopted by
// the root, and their own declared children are attached below them.
func Build(s *sbomModel.SBOM, edges []Edge) []sbomModel.Warning {
	if s == nil || s.Root() == nil {
		return nil
	}

	warnings := resolveEdges(s, edges)

	b := &builder{
		sbom:     s,
		attached: map[string]bool{s.RootComponentID: true},
	}
	b.traverse(s.RootComponentID)

	for _, id := range s.ComponentIDs {
		if b.attached[id] {
			continue
		}
		log.Debug().Msgf("adopting orphan component %s under root %s", id, s.RootComponentID)
		b.attached[id] = true
		s.AttachChild(s.RootComponentID, id)
		b.traverse(id)
	}

	return warnings
}

func resolveEdges(s *sbomModel.SBOM, edges []Edge) []sbomModel.Warning {
	var warnings []sbomModel.Warning

	for _, edge := range edges {
		parentID := sbomModel.NormalizeID(edge.Parent)
		childID := sbomModel.NormalizeID(edge.Child)

		if s.Component(parentID) == nil {
			log.Debug().Msgf("dropping dependency %s -> %s: unknown parent", edge.Parent, edge.Child)
			warnings = append(warnings, sbomModel.NewWarning(sbomModel.WarningReference,
				"dependency %s -> %s references unknown component %s", edge.Parent, edge.Child, edge.Parent))
			continue
		}
		if s.Component(childID) == nil {
			log.Debug().Msgf("dropping dependency %s -> %s: unknown child", edge.Parent, edge.Child)
			warnings = append(warnings, sbomModel.NewWarning(sbomModel.WarningReference,
				"dependency %s -> %s references unknown component %s", edge.Parent, edge.Child, edge.Child))
			continue
		}
		if parentID == childID {
			continue
		}

		s.AddDependency(parentID, childID)
	}

	return warnings
}

func (b *builder) traverse(startID string) {
	stack := []string{startID}

	for len(stack) > 0 {
		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var expand []string
		for _, childID := range b.sbom.Dependencies[parentID] {
			if b.attached[childID] {
				continue
			}
			b.attached[childID] = true
			b.sbom.AttachChild(parentID, childID)
			expand = append(expand, childID)
		}

		// reversed so the first child is expanded next
		for i := len(expand) - 1; i >= 0; i-- {
			stack = append(stack, expand[i])
		}
	}
}

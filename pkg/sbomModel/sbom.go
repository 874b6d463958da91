package sbomModel

func NewSBOM(format Format) *SBOM {
	return &SBOM{
		Format:       format,
		Metadata:     map[string]string{},
		Components:   map[string]*Component{},
		Dependencies: map[string][]string{},
	}
}

// AddComponent registers c under its id. It returns false, leaving the SBOM
// untouched, when the id is empty or already taken.
func (s *SBOM) AddComponent(c *Component) bool {
	if c == nil || c.ID == "" {
		return false
	}
	if _, exists := s.Components[c.ID]; exists {
		return false
	}
	s.Components[c.ID] = c
	s.ComponentIDs = append(s.ComponentIDs, c.ID)
	return true
}

func (s *SBOM) Component(id string) *Component {
	return s.Components[id]
}

func (s *SBOM) Root() *Component {
	if s.RootComponentID == "" {
		return nil
	}
	return s.Components[s.RootComponentID]
}

// OrderedComponents returns the components in the order they were registered.
func (s *SBOM) OrderedComponents() []*Component {
	components := make([]*Component, 0, len(s.ComponentIDs))
	for _, id := range s.ComponentIDs {
		if c, ok := s.Components[id]; ok {
			components = append(components, c)
		}
	}
	return components
}

// AddDependency records a resolved parent->child edge once.
func (s *SBOM) AddDependency(parentID, childID string) {
	if s.Dependencies == nil {
		s.Dependencies = map[string][]string{}
	}
	s.Dependencies[parentID] = appendUnique(s.Dependencies[parentID], childID)
}

// AttachChild makes childID a tree child of parentID.
func (s *SBOM) AttachChild(parentID, childID string) {
	parent := s.Components[parentID]
	if parent == nil {
		return
	}
	parent.ChildIDs = appendUnique(parent.ChildIDs, childID)
}

// Parents maps every attached component id to its tree parent id.
func (s *SBOM) Parents() map[string]string {
	parents := make(map[string]string, len(s.Components))
	for _, c := range s.OrderedComponents() {
		for _, childID := range c.ChildIDs {
			if _, seen := parents[childID]; !seen {
				parents[childID] = c.ID
			}
		}
	}
	return parents
}

// Walk visits the tree depth-first in pre-order, starting at the root. Returning
// false from fn skips the subtree of the visited component.
func (s *SBOM) Walk(fn func(c *Component, depth int) bool) {
	root := s.Root()
	if root == nil {
		return
	}

	type frame struct {
		component *Component
		depth     int
	}

	visited := map[string]bool{}
	stack := []frame{{component: root}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current.component.ID] {
			continue
		}
		visited[current.component.ID] = true

		if !fn(current.component, current.depth) {
			continue
		}
		for i := len(current.component.ChildIDs) - 1; i >= 0; i-- {
			child := s.Components[current.component.ChildIDs[i]]
			if child != nil && !visited[child.ID] {
				stack = append(stack, frame{component: child, depth: current.depth + 1})
			}
		}
	}
}

// Tree returns the nested view of the component tree, or nil without a root.
func (s *SBOM) Tree() *TreeNode {
	nodes := map[string]*TreeNode{}
	var root *TreeNode
	parents := s.Parents()

	s.Walk(func(c *Component, depth int) bool {
		node := &TreeNode{ID: c.ID, Name: c.Name, Version: c.Version}
		if len(c.PURLs) > 0 {
			node.PURL = c.PURLs[0]
		}
		nodes[c.ID] = node
		if depth == 0 {
			root = node
			return true
		}
		if parent := nodes[parents[c.ID]]; parent != nil {
			parent.Children = append(parent.Children, node)
		}
		return true
	})

	return root
}

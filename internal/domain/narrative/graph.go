package narrative

import "fmt"

// Graph is a validated, read-only narrative script. Construction is the only
// place structural defects can surface; once built, every walk from the start
// node reaches the terminal sentinel in a bounded number of steps.
type Graph struct {
	script Script
}

// NewGraph validates a script and wraps it as an immutable graph. Any defect
// is reported as ErrGraphConstruction; the caller must treat it as fatal.
func NewGraph(script Script) (*Graph, error) {
	n := len(script.Nodes)
	if n == 0 {
		return nil, fmt.Errorf("%w: script has no nodes", ErrGraphConstruction)
	}
	if script.Start < 0 || script.Start >= n {
		return nil, fmt.Errorf("%w: start index %d out of range [0,%d)", ErrGraphConstruction, script.Start, n)
	}
	for i, node := range script.Nodes {
		if len(node.Choices) == 0 {
			return nil, fmt.Errorf("%w: node %d has no choices", ErrGraphConstruction, i)
		}
		if len(node.Choices) > maxChoices {
			return nil, fmt.Errorf("%w: node %d offers %d choices, max is %d", ErrGraphConstruction, i, len(node.Choices), maxChoices)
		}
		for c, choice := range node.Choices {
			if choice.Next != Terminal && (choice.Next < 0 || choice.Next >= n) {
				return nil, fmt.Errorf("%w: node %d choice %d points to unknown node %d", ErrGraphConstruction, i, c, choice.Next)
			}
		}
	}
	if err := checkTermination(script); err != nil {
		return nil, err
	}
	return &Graph{script: script}, nil
}

// checkTermination rejects any cycle reachable from the start node. With all
// destinations already validated, an acyclic reachable subgraph guarantees
// the terminal sentinel is hit in at most len(Nodes) steps.
func checkTermination(script Script) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(script.Nodes))

	var visit func(idx int) error
	visit = func(idx int) error {
		switch state[idx] {
		case visiting:
			return fmt.Errorf("%w: cycle through node %d reachable from start", ErrGraphConstruction, idx)
		case done:
			return nil
		}
		state[idx] = visiting
		for _, choice := range script.Nodes[idx].Choices {
			if choice.Next == Terminal {
				continue
			}
			if err := visit(choice.Next); err != nil {
				return err
			}
		}
		state[idx] = done
		return nil
	}
	return visit(script.Start)
}

// Tag returns the script's question tag.
func (g *Graph) Tag() string { return g.script.Tag }

// Start returns the designated start node index.
func (g *Graph) Start() int { return g.script.Start }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.script.Nodes) }

// Node returns the node at idx. The index must have been produced by the
// graph itself (start index or a validated choice destination).
func (g *Graph) Node(idx int) Node { return g.script.Nodes[idx] }

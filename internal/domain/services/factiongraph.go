package services

import "github.com/ersonp/campaign-core/internal/domain/entities"

// relationshipGraph is the adjacency view of the faction collection. All
// edge mutations go through it so both endpoints of a relationship are
// always updated together instead of by convention in two list edits.
//
// Edges toward factions that do not exist stay one-sided; the graph never
// invents the missing endpoint.
type relationshipGraph struct {
	order     []string
	factions  map[string]*entities.Faction
	edges     map[string]map[string]entities.Standing
	edgeOrder map[string][]string
	modified  map[string]struct{}
}

// newRelationshipGraph builds the graph from the stored faction list,
// preserving collection and relationship order.
func newRelationshipGraph(factions []entities.Faction) *relationshipGraph {
	g := &relationshipGraph{
		factions:  make(map[string]*entities.Faction, len(factions)),
		edges:     make(map[string]map[string]entities.Standing),
		edgeOrder: make(map[string][]string),
		modified:  make(map[string]struct{}),
	}
	for i := range factions {
		f := factions[i]
		g.order = append(g.order, f.Name)
		g.factions[f.Name] = &f
		for _, rel := range f.Relationships {
			g.setDirected(f.Name, rel.FactionName, rel.Type)
		}
	}
	return g
}

// setDirected records a one-way edge without touching the reverse side.
func (g *relationshipGraph) setDirected(from, to string, standing entities.Standing) {
	peers, ok := g.edges[from]
	if !ok {
		peers = make(map[string]entities.Standing)
		g.edges[from] = peers
	}
	if _, exists := peers[to]; !exists {
		g.edgeOrder[from] = append(g.edgeOrder[from], to)
	}
	peers[to] = standing
}

// removeDirected drops a one-way edge.
func (g *relationshipGraph) removeDirected(from, to string) {
	peers, ok := g.edges[from]
	if !ok {
		return
	}
	if _, exists := peers[to]; !exists {
		return
	}
	delete(peers, to)
	order := g.edgeOrder[from]
	for i, peer := range order {
		if peer == to {
			g.edgeOrder[from] = append(order[:i], order[i+1:]...)
			break
		}
	}
}

// SetEdge records the relationship on both endpoints. The reciprocal side is
// written only when the target faction exists.
func (g *relationshipGraph) SetEdge(from, to string, standing entities.Standing) {
	g.setDirected(from, to, standing)
	g.markModified(from)
	if _, ok := g.factions[to]; ok {
		g.setDirected(to, from, standing)
		g.markModified(to)
	}
}

// RemoveEdge drops the relationship from both endpoints.
func (g *relationshipGraph) RemoveEdge(from, to string) {
	g.removeDirected(from, to)
	g.markModified(from)
	if _, ok := g.factions[to]; ok {
		g.removeDirected(to, from)
		g.markModified(to)
	}
}

// Rename moves a faction to a new name and rewrites every edge that pointed
// at the old name. The caller must have checked the new name is free.
func (g *relationshipGraph) Rename(oldName, newName string) {
	faction, ok := g.factions[oldName]
	if !ok {
		return
	}

	faction.Name = newName
	delete(g.factions, oldName)
	g.factions[newName] = faction
	for i, name := range g.order {
		if name == oldName {
			g.order[i] = newName
		}
	}

	g.edges[newName] = g.edges[oldName]
	delete(g.edges, oldName)
	g.edgeOrder[newName] = g.edgeOrder[oldName]
	delete(g.edgeOrder, oldName)
	g.markModified(newName)

	for from, peers := range g.edges {
		standing, ok := peers[oldName]
		if !ok {
			continue
		}
		delete(peers, oldName)
		peers[newName] = standing
		for i, peer := range g.edgeOrder[from] {
			if peer == oldName {
				g.edgeOrder[from][i] = newName
			}
		}
		g.markModified(from)
	}
}

// Add inserts a new faction into the graph.
func (g *relationshipGraph) Add(faction *entities.Faction) {
	g.order = append(g.order, faction.Name)
	g.factions[faction.Name] = faction
	g.markModified(faction.Name)
}

// Faction returns the faction by name, or nil.
func (g *relationshipGraph) Faction(name string) *entities.Faction {
	return g.factions[name]
}

func (g *relationshipGraph) markModified(name string) {
	if _, ok := g.factions[name]; ok {
		g.modified[name] = struct{}{}
	}
}

// Materialize writes the adjacency state back into faction records in
// collection order. Factions whose edges changed get their UpdatedAt
// re-stamped.
func (g *relationshipGraph) Materialize() []entities.Faction {
	out := make([]entities.Faction, 0, len(g.order))
	for _, name := range g.order {
		faction := g.factions[name]
		rels := make([]entities.FactionRelationship, 0, len(g.edgeOrder[name]))
		for _, peer := range g.edgeOrder[name] {
			rels = append(rels, entities.FactionRelationship{
				FactionName: peer,
				Type:        g.edges[name][peer],
			})
		}
		if len(rels) == 0 {
			rels = nil
		}
		faction.Relationships = rels
		if _, changed := g.modified[name]; changed {
			faction.Touch()
		}
		out = append(out, *faction)
	}
	return out
}

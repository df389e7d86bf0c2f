package world

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

// Validate checks every cross-reference in the configuration. A nil
// return guarantees that the engine never encounters a dangling map,
// NPC, or item id at runtime.
func (c *Config) Validate() error {
	if len(c.Maps) == 0 {
		return fmt.Errorf("config defines no maps")
	}

	if c.Currency == "" {
		return fmt.Errorf("currency item is required")
	}
	if _, ok := c.Items[c.Currency]; !ok {
		return fmt.Errorf("currency %q is not a defined item", c.Currency)
	}

	for id, m := range c.Maps {
		for dir, neighborID := range m.Neighbors {
			if _, ok := c.Maps[neighborID]; !ok {
				return fmt.Errorf("map %q neighbor %s references unknown map %q", id, dir, neighborID)
			}
		}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				t := m.Tiles[y][x]
				if t.Kind != TileNPC {
					continue
				}
				npc, ok := c.NPCs[t.NPCID]
				if !ok {
					return fmt.Errorf("map %q tile (%d,%d) references unknown NPC %q", id, x, y, t.NPCID)
				}
				// An open_door NPC is only useful on a map with a gate.
				if slices.Contains(npc.Tools, "open_door") {
					if _, ok := c.Gates[id]; !ok {
						return fmt.Errorf("npc %q on map %q declares open_door but the map has no gate", t.NPCID, id)
					}
				}
			}
		}
	}

	for id, npc := range c.NPCs {
		for _, tool := range npc.Tools {
			if !slices.Contains(ToolNames, tool) {
				return fmt.Errorf("npc %q declares unknown tool %q", id, tool)
			}
		}
		for i, msg := range npc.History {
			if msg.Role != chat.RoleUser && msg.Role != chat.RoleModel {
				return fmt.Errorf("npc %q history entry %d has invalid role %q", id, i, msg.Role)
			}
		}
	}

	for _, seed := range c.SeedInventory {
		if _, ok := c.Items[seed.ObjectID]; !ok {
			return fmt.Errorf("starting inventory references unknown item %q", seed.ObjectID)
		}
		if seed.Quantity <= 0 {
			return fmt.Errorf("starting inventory entry %q has non-positive quantity %d", seed.ObjectID, seed.Quantity)
		}
	}

	for mapID, dest := range c.Gates {
		if _, ok := c.Maps[mapID]; !ok {
			return fmt.Errorf("gate is anchored to unknown map %q", mapID)
		}
		if err := c.validateStanding(dest); err != nil {
			return fmt.Errorf("gate from %q: %w", mapID, err)
		}
	}

	if err := c.validateStanding(c.Start); err != nil {
		return fmt.Errorf("starting position: %w", err)
	}
	return nil
}

// validateStanding checks that a position is a terrain tile on a
// defined map. Players can stand only on terrain.
func (c *Config) validateStanding(p Position) error {
	m, ok := c.Maps[p.MapID]
	if !ok {
		return fmt.Errorf("unknown map %q", p.MapID)
	}
	if !m.InBounds(p.X, p.Y) {
		return fmt.Errorf("(%d,%d) is outside map %q bounds %dx%d", p.X, p.Y, p.MapID, m.Width, m.Height)
	}
	if m.At(p.X, p.Y).Kind != TileTerrain {
		return fmt.Errorf("(%d,%d) on map %q is not a terrain tile", p.X, p.Y, p.MapID)
	}
	return nil
}

package state

import (
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// HandleMovement advances the player one tile in the given direction.
// It is a no-op while a dialog is open. Walking off a map edge
// crosses into the configured neighbor map when one exists; otherwise
// the end-of-map splash is raised and the position is unchanged.
func HandleMovement(cfg *world.Config, gs GameState, dir world.Direction) GameState {
	if gs.Chat != nil {
		return gs
	}
	m := cfg.Map(gs.Player.MapID)
	if m == nil {
		return gs
	}

	dx, dy := dir.Delta()
	x, y := gs.Player.X+dx, gs.Player.Y+dy

	if !m.InBounds(x, y) {
		neighborID, ok := m.Neighbors[dir]
		if !ok {
			gs.Splash = cfg.EndOfMapText
			return gs
		}
		gs.Player = entryPosition(cfg.Map(neighborID), dir, gs.Player)
		return gs
	}

	switch t := m.At(x, y); t.Kind {
	case world.TileObstacle:
		return gs
	case world.TileNPC:
		return openDialog(cfg, gs, t.NPCID)
	default:
		gs.Player.X, gs.Player.Y = x, y
		return gs
	}
}

// entryPosition places the player on the far edge of the neighbor map
// for the crossed axis, preserving the perpendicular coordinate
// (clamped into the neighbor's bounds).
func entryPosition(neighbor *world.Map, dir world.Direction, from world.Position) world.Position {
	p := world.Position{MapID: neighbor.ID, X: from.X, Y: from.Y}
	switch dir {
	case world.North:
		p.Y = neighbor.Height - 1
	case world.South:
		p.Y = 0
	case world.East:
		p.X = 0
	case world.West:
		p.X = neighbor.Width - 1
	}
	p.X = clamp(p.X, 0, neighbor.Width-1)
	p.Y = clamp(p.Y, 0, neighbor.Height-1)
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openDialog enters dialog mode with the NPC on the target tile. The
// player does not move onto the tile. The conversation opens with the
// NPC's preseeded history when configured, or a single synthesized
// model turn carrying the intro text.
func openDialog(cfg *world.Config, gs GameState, npcID string) GameState {
	npc := cfg.NPCs[npcID]
	cw := &ChatWindow{
		NPCID: npcID,
		Intro: npc.Intro,
		Turn:  UserTurn{},
	}
	if len(npc.History) > 0 {
		cw.Contents = append([]chat.Message(nil), npc.History...)
	} else {
		cw.Contents = []chat.Message{chat.TextMessage(chat.RoleModel, npc.Intro)}
	}
	for _, msg := range cw.Contents {
		if text := msg.Text(); text != "" {
			cw.History = append(cw.History, HistoryEntry{Role: msg.Role, Text: text})
		}
	}
	gs.Chat = cw
	return gs
}

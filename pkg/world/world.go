package world

import "github.com/jwebster45206/tilequest/pkg/chat"

// Position identifies one tile on one map.
type Position struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	MapID string `json:"map_id"`
}

// Direction is a cardinal movement direction. Directions double as
// neighbor keys in map configuration.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Delta returns the unit tile offset for the direction. The y axis
// grows downward, so north is -1.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// TileKind discriminates the tile variants.
type TileKind int

const (
	TileTerrain TileKind = iota
	TileObstacle
	TileNPC
)

// Tile is one cell of a map grid. NPCID is set only for TileNPC.
type Tile struct {
	Kind  TileKind
	NPCID string
}

// Walkable reports whether the player may occupy the tile. NPC tiles
// are walkable in the sense that stepping toward them is legal; the
// navigation layer opens a dialog instead of moving.
func (t Tile) Walkable() bool {
	return t.Kind != TileObstacle
}

// Map is a rectangular tile grid with up to four neighbor maps.
type Map struct {
	ID        string
	Width     int
	Height    int
	Tiles     [][]Tile // indexed [y][x]
	Neighbors map[Direction]string
}

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the tile at (x, y). Callers must check InBounds first.
func (m *Map) At(x, y int) Tile {
	return m.Tiles[y][x]
}

// NPC is a static non-player character definition.
type NPC struct {
	ID           string
	Name         string
	Intro        string
	SystemPrompt string
	Tools        []string       // tool names the NPC may call
	History      []chat.Message // optional preseeded conversation
}

// Item is a catalog entry for an inventory object.
type Item struct {
	ID   string
	Name string
}

// SeedStack is one starting-inventory entry.
type SeedStack struct {
	ObjectID string
	Quantity int
}

// Config is the complete static game configuration. It is loaded once
// at startup and passed explicitly to whatever needs it; there is no
// ambient global.
type Config struct {
	Start         Position
	Currency      string // item id deducted by sell_item
	EndOfMapText  string
	MaxSlots      int
	SeedInventory []SeedStack
	Items         map[string]Item
	Maps          map[string]*Map
	NPCs          map[string]NPC
	Gates         map[string]Position // source map id -> destination
}

// Map returns the map with the given id, or nil.
func (c *Config) Map(id string) *Map {
	return c.Maps[id]
}

// Gate returns the open_door destination anchored to the given map.
func (c *Config) Gate(mapID string) (Position, bool) {
	p, ok := c.Gates[mapID]
	return p, ok
}

package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

// ToolNames are the tool identifiers NPCs may declare.
var ToolNames = []string{"open_door", "sell_item"}

const (
	defaultMaxSlots     = 12
	defaultEndOfMapText = "You cannot go any further."
)

// fileConfig mirrors the on-disk YAML layout.
type fileConfig struct {
	Start struct {
		Map string `yaml:"map"`
		X   int    `yaml:"x"`
		Y   int    `yaml:"y"`
	} `yaml:"start"`
	Currency     string `yaml:"currency"`
	EndOfMapText string `yaml:"end_of_map_text"`
	MaxSlots     int    `yaml:"max_slots"`
	Items        []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"items"`
	Inventory []struct {
		Item string `yaml:"item"`
		Qty  int    `yaml:"qty"`
	} `yaml:"inventory"`
	Gates map[string]struct {
		Map string `yaml:"map"`
		X   int    `yaml:"x"`
		Y   int    `yaml:"y"`
	} `yaml:"gates"`
	Maps map[string]struct {
		Neighbors map[string]string `yaml:"neighbors"`
		Legend    map[string]string `yaml:"legend"`
		Tiles     []string          `yaml:"tiles"`
	} `yaml:"maps"`
	NPCs map[string]struct {
		Name         string   `yaml:"name"`
		Intro        string   `yaml:"intro"`
		SystemPrompt string   `yaml:"system_prompt"`
		Tools        []string `yaml:"tools"`
		History      []struct {
			Role string `yaml:"role"`
			Text string `yaml:"text"`
		} `yaml:"history"`
	} `yaml:"npcs"`
}

// Load reads, parses, and validates a world configuration file.
// Every problem is fatal: a config that loads is a config the engine
// can trust at runtime.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse world config: %w", err)
	}

	cfg := &Config{
		Start:        Position{X: fc.Start.X, Y: fc.Start.Y, MapID: fc.Start.Map},
		Currency:     fc.Currency,
		EndOfMapText: fc.EndOfMapText,
		MaxSlots:     fc.MaxSlots,
		Items:        make(map[string]Item),
		Maps:         make(map[string]*Map),
		NPCs:         make(map[string]NPC),
		Gates:        make(map[string]Position),
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = defaultMaxSlots
	}
	if cfg.EndOfMapText == "" {
		cfg.EndOfMapText = defaultEndOfMapText
	}

	for _, it := range fc.Items {
		cfg.Items[it.ID] = Item{ID: it.ID, Name: it.Name}
	}

	for _, seed := range fc.Inventory {
		cfg.SeedInventory = append(cfg.SeedInventory, SeedStack{ObjectID: seed.Item, Quantity: seed.Qty})
	}

	for mapID, gate := range fc.Gates {
		cfg.Gates[mapID] = Position{X: gate.X, Y: gate.Y, MapID: gate.Map}
	}

	for id, raw := range fc.NPCs {
		npc := NPC{
			ID:           id,
			Name:         raw.Name,
			Intro:        raw.Intro,
			SystemPrompt: raw.SystemPrompt,
			Tools:        raw.Tools,
		}
		for _, h := range raw.History {
			npc.History = append(npc.History, chat.TextMessage(h.Role, h.Text))
		}
		cfg.NPCs[id] = npc
	}

	for id, raw := range fc.Maps {
		m, err := parseMap(id, raw.Tiles, raw.Legend, raw.Neighbors)
		if err != nil {
			return nil, err
		}
		cfg.Maps[id] = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseMap converts tile rows into a grid. '#' is an obstacle, '.'
// and ' ' are terrain, and any other rune must resolve through the
// map's legend to an NPC id.
func parseMap(id string, rows []string, legend map[string]string, neighbors map[string]string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map %q has no tile rows", id)
	}

	width := len([]rune(rows[0]))
	m := &Map{
		ID:        id,
		Width:     width,
		Height:    len(rows),
		Tiles:     make([][]Tile, len(rows)),
		Neighbors: make(map[Direction]string),
	}

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("map %q row %d has width %d, expected %d", id, y, len(runes), width)
		}
		m.Tiles[y] = make([]Tile, width)
		for x, r := range runes {
			switch r {
			case '#':
				m.Tiles[y][x] = Tile{Kind: TileObstacle}
			case '.', ' ':
				m.Tiles[y][x] = Tile{Kind: TileTerrain}
			default:
				npcID, ok := legend[string(r)]
				if !ok {
					return nil, fmt.Errorf("map %q has unknown tile character %q at (%d,%d)", id, string(r), x, y)
				}
				m.Tiles[y][x] = Tile{Kind: TileNPC, NPCID: npcID}
			}
		}
	}

	for dir, neighborID := range neighbors {
		d := Direction(dir)
		switch d {
		case North, South, East, West:
			m.Neighbors[d] = neighborID
		default:
			return nil, fmt.Errorf("map %q has invalid neighbor direction %q", id, dir)
		}
	}
	return m, nil
}

package state

import (
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// makeMap builds an all-terrain grid; tests overwrite individual
// tiles as needed.
func makeMap(id string, width, height int, neighbors map[world.Direction]string) *world.Map {
	m := &world.Map{
		ID:        id,
		Width:     width,
		Height:    height,
		Neighbors: neighbors,
		Tiles:     make([][]world.Tile, height),
	}
	for y := range m.Tiles {
		m.Tiles[y] = make([]world.Tile, width)
	}
	return m
}

// testConfig builds a synthetic two-map world: town (16x10) with a
// north neighbor forest (16x15). The guard NPC sits west of the
// starting position, the merchant east, and an obstacle due north.
func testConfig() *world.Config {
	town := makeMap("town", 16, 10, map[world.Direction]string{world.North: "forest"})
	town.Tiles[4][8] = world.Tile{Kind: world.TileObstacle}
	town.Tiles[5][7] = world.Tile{Kind: world.TileNPC, NPCID: "guard"}
	town.Tiles[5][9] = world.Tile{Kind: world.TileNPC, NPCID: "merchant"}

	forest := makeMap("forest", 16, 15, map[world.Direction]string{world.South: "town"})

	return &world.Config{
		Start:        world.Position{X: 8, Y: 5, MapID: "town"},
		Currency:     "gold_coin",
		EndOfMapText: "You cannot go any further.",
		MaxSlots:     8,
		SeedInventory: []world.SeedStack{
			{ObjectID: "gold_coin", Quantity: 100},
		},
		Items: map[string]world.Item{
			"gold_coin": {ID: "gold_coin", Name: "gold coin"},
			"rope":      {ID: "rope", Name: "rope"},
		},
		Maps: map[string]*world.Map{"town": town, "forest": forest},
		NPCs: map[string]world.NPC{
			"guard": {
				ID:           "guard",
				Name:         "gate guard",
				Intro:        "Halt! Who goes there?",
				SystemPrompt: "You are a gruff gate guard.",
				Tools:        []string{"open_door"},
			},
			"merchant": {
				ID:           "merchant",
				Name:         "merchant",
				Intro:        "Welcome to my shop.",
				SystemPrompt: "You are a shrewd merchant.",
				Tools:        []string{"sell_item"},
				History: []chat.Message{
					chat.TextMessage(chat.RoleModel, "Welcome to my shop."),
					chat.TextMessage(chat.RoleUser, "What do you sell?"),
					chat.TextMessage(chat.RoleModel, "Rope, lanterns, the usual."),
				},
			},
		},
		Gates: map[string]world.Position{
			"town":   {X: 7, Y: 1, MapID: "forest"},
			"forest": {X: 7, Y: 8, MapID: "town"},
		},
	}
}

// inDialog returns a state already in dialog with the given NPC and
// turn state.
func inDialog(cfg *world.Config, npcID string, turn TurnState) GameState {
	gs := NewGameState(cfg)
	npc := cfg.NPCs[npcID]
	contents := npc.History
	if len(contents) == 0 {
		contents = []chat.Message{chat.TextMessage(chat.RoleModel, npc.Intro)}
	}
	gs.Chat = &ChatWindow{
		NPCID:    npcID,
		Intro:    npc.Intro,
		Contents: append([]chat.Message(nil), contents...),
		Turn:     turn,
	}
	return gs
}

// modelReply wraps a model message in a successful chat response.
func modelReply(parts ...chat.Part) chat.ChatResponse {
	return chat.ChatResponse{
		Success: true,
		Response: &chat.ChatPayload{
			Content: chat.Message{Role: chat.RoleModel, Parts: parts},
		},
	}
}

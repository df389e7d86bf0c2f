package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/inventory"
	"github.com/jwebster45206/tilequest/pkg/world"
)

func testConfig() *world.Config {
	return &world.Config{
		Currency: "gold_coin",
		Items: map[string]world.Item{
			"gold_coin": {ID: "gold_coin", Name: "gold coin"},
			"rope":      {ID: "rope", Name: "rope"},
		},
		Gates: map[string]world.Position{
			"town": {X: 7, Y: 1, MapID: "forest"},
		},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		call *chat.FunctionCall
		want Action
	}{
		{
			name: "open_door",
			call: &chat.FunctionCall{Name: "open_door"},
			want: OpenDoor{},
		},
		{
			name: "sell_item with json-decoded args",
			call: &chat.FunctionCall{Name: "sell_item", Args: map[string]any{"object_id": "rope", "price": float64(10)}},
			want: SellItem{ObjectID: "rope", Price: 10},
		},
		{
			name: "sell_item with int args",
			call: &chat.FunctionCall{Name: "sell_item", Args: map[string]any{"object_id": "rope", "price": 10}},
			want: SellItem{ObjectID: "rope", Price: 10},
		},
		{
			name: "unknown function name",
			call: &chat.FunctionCall{Name: "cast_spell"},
			want: nil,
		},
		{
			name: "nil call",
			call: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.call))
		})
	}
}

func TestNeedsConfirmation(t *testing.T) {
	cfg := testConfig()

	needs, warning := NeedsConfirmation(cfg, inventory.New(8), OpenDoor{})
	assert.False(t, needs)
	assert.Empty(t, warning)

	// Sales always need confirmation, regardless of funds.
	inv := inventory.New(8).Add("gold_coin", 100)
	needs, warning = NeedsConfirmation(cfg, inv, SellItem{ObjectID: "rope", Price: 10})
	assert.True(t, needs)
	assert.Empty(t, warning)

	// Insufficient funds is flagged but still routed through confirmation.
	needs, warning = NeedsConfirmation(cfg, inventory.New(8), SellItem{ObjectID: "rope", Price: 10})
	assert.True(t, needs)
	assert.Equal(t, "This costs 10 gold coin but you only carry 0.", warning)
}

func TestPerform_OpenDoor(t *testing.T) {
	cfg := testConfig()
	pos := world.Position{X: 3, Y: 3, MapID: "town"}
	inv := inventory.New(8).Add("gold_coin", 100)

	newPos, newInv, resp := Perform(cfg, pos, inv, OpenDoor{})
	assert.Equal(t, world.Position{X: 7, Y: 1, MapID: "forest"}, newPos)
	assert.Equal(t, inv, newInv)
	assert.Equal(t, chat.FunctionResponse{Name: "open_door", Response: map[string]any{"result": "accept"}}, resp)
}

func TestPerform_OpenDoorWithoutGate(t *testing.T) {
	cfg := testConfig()
	pos := world.Position{X: 0, Y: 0, MapID: "cave"}

	newPos, _, resp := Perform(cfg, pos, inventory.New(8), OpenDoor{})
	assert.Equal(t, pos, newPos)
	assert.Equal(t, "reject", resp.Response["result"])
}

func TestPerform_SellItem(t *testing.T) {
	cfg := testConfig()
	pos := world.Position{X: 3, Y: 3, MapID: "town"}
	inv := inventory.New(8).Add("gold_coin", 100)

	newPos, newInv, resp := Perform(cfg, pos, inv, SellItem{ObjectID: "rope", Price: 10})
	assert.Equal(t, pos, newPos)
	assert.Equal(t, 1, newInv.Quantity("rope"))
	assert.Equal(t, 90, newInv.Quantity("gold_coin"))
	assert.Equal(t, "accept", resp.Response["result"])

	// Input inventory untouched.
	assert.Equal(t, 100, inv.Quantity("gold_coin"))
	assert.Equal(t, 0, inv.Quantity("rope"))
}

// A sale priced above current gold still resolves; the currency stack
// is clamped to deletion. Confirmation is the upstream guard.
func TestPerform_SellItemOverdraft(t *testing.T) {
	cfg := testConfig()
	inv := inventory.New(8).Add("gold_coin", 5)

	_, newInv, resp := Perform(cfg, world.Position{MapID: "town"}, inv, SellItem{ObjectID: "rope", Price: 10})
	assert.Equal(t, 0, newInv.Quantity("gold_coin"))
	assert.Equal(t, 1, newInv.Quantity("rope"))
	assert.Equal(t, "accept", resp.Response["result"])
}

func TestExitsDialog(t *testing.T) {
	assert.True(t, ExitsDialog(OpenDoor{}))
	assert.False(t, ExitsDialog(SellItem{ObjectID: "rope", Price: 10}))
}

func TestDescribe(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "open the gate", Describe(cfg, OpenDoor{}))
	assert.Equal(t, "sell you one rope for 10 gold coin", Describe(cfg, SellItem{ObjectID: "rope", Price: 10}))
}

func TestRejection(t *testing.T) {
	resp := Rejection(SellItem{ObjectID: "rope", Price: 10})
	require.Equal(t, "sell_item", resp.Name)
	assert.Equal(t, map[string]any{"result": "reject"}, resp.Response)
}

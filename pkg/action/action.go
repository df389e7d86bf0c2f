// Package action interprets model-issued function calls as typed game
// actions and executes them against player position and inventory.
package action

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/inventory"
	"github.com/jwebster45206/tilequest/pkg/world"
)

const (
	NameOpenDoor = "open_door"
	NameSellItem = "sell_item"

	ResultAccept = "accept"
	ResultReject = "reject"
)

// Action is a typed domain effect requested by the model.
type Action interface {
	Name() string
	isAction()
}

// OpenDoor teleports the player through the gate anchored to the
// current map. It always ends the conversation.
type OpenDoor struct{}

func (OpenDoor) Name() string { return NameOpenDoor }
func (OpenDoor) isAction()    {}

// SellItem transfers one unit of an object to the player in exchange
// for Price units of the configured currency.
type SellItem struct {
	ObjectID string
	Price    int
}

func (SellItem) Name() string { return NameSellItem }
func (SellItem) isAction()    {}

// Parse maps a function call onto an Action. Unknown names yield nil;
// the dialog layer treats that as an unrecoverable dialog error.
func Parse(fc *chat.FunctionCall) Action {
	if fc == nil {
		return nil
	}
	switch fc.Name {
	case NameOpenDoor:
		return OpenDoor{}
	case NameSellItem:
		objectID, _ := fc.Args["object_id"].(string)
		return SellItem{ObjectID: objectID, Price: intArg(fc.Args["price"])}
	default:
		return nil
	}
}

// intArg coerces a loosely typed JSON argument to an int.
func intArg(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

// NeedsConfirmation decides whether the action is gated on a yes/no
// prompt. Sales always go through confirmation; the returned warning
// is non-empty when the player cannot actually afford the price, so
// the rejection path is visible before the purchase is accepted.
func NeedsConfirmation(cfg *world.Config, inv inventory.Inventory, a Action) (bool, string) {
	switch act := a.(type) {
	case SellItem:
		warning := ""
		if have := inv.Quantity(cfg.Currency); have < act.Price {
			warning = fmt.Sprintf("This costs %d %s but you only carry %d.", act.Price, itemName(cfg, cfg.Currency), have)
		}
		return true, warning
	default:
		return false, ""
	}
}

// Perform executes the action and returns the new position and
// inventory plus the functionResponse payload for the next model
// request. No balance check happens here: the ledger clamps a
// currency stack that goes below zero, and confirmation is the
// upstream guard.
func Perform(cfg *world.Config, pos world.Position, inv inventory.Inventory, a Action) (world.Position, inventory.Inventory, chat.FunctionResponse) {
	switch act := a.(type) {
	case OpenDoor:
		dest, ok := cfg.Gate(pos.MapID)
		if !ok {
			return pos, inv, Rejection(a)
		}
		return dest, inv, acceptance(a)
	case SellItem:
		inv = inv.Add(act.ObjectID, 1)
		inv = inv.Remove(cfg.Currency, act.Price)
		return pos, inv, acceptance(a)
	}
	return pos, inv, Rejection(a)
}

// ExitsDialog reports whether a resolved action forcibly ends the
// conversation.
func ExitsDialog(a Action) bool {
	_, ok := a.(OpenDoor)
	return ok
}

// Describe renders the action as a confirmation prompt fragment.
func Describe(cfg *world.Config, a Action) string {
	switch act := a.(type) {
	case OpenDoor:
		return "open the gate"
	case SellItem:
		return fmt.Sprintf("sell you one %s for %d %s", itemName(cfg, act.ObjectID), act.Price, itemName(cfg, cfg.Currency))
	}
	return ""
}

func acceptance(a Action) chat.FunctionResponse {
	return chat.FunctionResponse{Name: a.Name(), Response: map[string]any{"result": ResultAccept}}
}

// Rejection is the functionResponse for a declined or unperformable
// action.
func Rejection(a Action) chat.FunctionResponse {
	return chat.FunctionResponse{Name: a.Name(), Response: map[string]any{"result": ResultReject}}
}

func itemName(cfg *world.Config, id string) string {
	if it, ok := cfg.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

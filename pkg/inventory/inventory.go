package inventory

// Slot is one stack of a single object.
type Slot struct {
	ObjectID string `json:"object_id"`
	Quantity int    `json:"quantity"`
}

// Inventory is an ordered list of stacks. No two slots share an
// ObjectID, and quantities are always positive. All operations return
// a new value; the receiver and its slot list are never modified.
type Inventory struct {
	Slots    []Slot `json:"slots"`
	MaxSlots int    `json:"max_slots"`
}

// New creates an empty inventory with the given slot capacity.
func New(maxSlots int) Inventory {
	return Inventory{Slots: []Slot{}, MaxSlots: maxSlots}
}

func (inv Inventory) clone() Inventory {
	slots := make([]Slot, len(inv.Slots))
	copy(slots, inv.Slots)
	return Inventory{Slots: slots, MaxSlots: inv.MaxSlots}
}

// Add increments the matching slot by qty, or appends a new slot at
// the end. Slot order is preserved. MaxSlots is not enforced here;
// that is the caller's concern.
func (inv Inventory) Add(objectID string, qty int) Inventory {
	if qty <= 0 {
		return inv
	}
	out := inv.clone()
	for i, s := range out.Slots {
		if s.ObjectID == objectID {
			out.Slots[i].Quantity += qty
			return out
		}
	}
	out.Slots = append(out.Slots, Slot{ObjectID: objectID, Quantity: qty})
	return out
}

// Remove decrements the matching slot by qty. A slot that reaches
// zero or below is deleted. Removing an absent object is a no-op.
func (inv Inventory) Remove(objectID string, qty int) Inventory {
	if qty <= 0 {
		return inv
	}
	for i, s := range inv.Slots {
		if s.ObjectID != objectID {
			continue
		}
		out := inv.clone()
		if s.Quantity-qty <= 0 {
			out.Slots = append(out.Slots[:i], out.Slots[i+1:]...)
		} else {
			out.Slots[i].Quantity -= qty
		}
		return out
	}
	return inv
}

// Quantity returns the stack size for an object, or 0 if absent.
func (inv Inventory) Quantity(objectID string) int {
	for _, s := range inv.Slots {
		if s.ObjectID == objectID {
			return s.Quantity
		}
	}
	return 0
}

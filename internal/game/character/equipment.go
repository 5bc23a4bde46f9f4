package character

// Equipment is the explicit optional-capability surface the combat engine
// consults for weapon and shield data. A zero Equipment means unarmed and
// unshielded; the engine never needs to test for its presence.
type Equipment struct {
	mainHand *Weapon
	offHand  *Weapon
	shield   bool
}

// EquipMainHand places w in the main hand. nil clears the slot.
func (e *Equipment) EquipMainHand(w *Weapon) { e.mainHand = w }

// EquipOffHand places w in the off hand. nil clears the slot.
func (e *Equipment) EquipOffHand(w *Weapon) { e.offHand = w }

// EquipShield sets whether a shield is carried. Carrying a shield does not
// clear the off hand; dual-wield gating handles the conflict.
func (e *Equipment) EquipShield(carried bool) { e.shield = carried }

// MainHand returns the main-hand weapon, or nil when unarmed.
func (e *Equipment) MainHand() *Weapon { return e.mainHand }

// OffHand returns the off-hand weapon, or nil when the slot is empty.
func (e *Equipment) OffHand() *Weapon { return e.offHand }

// HasShield reports whether a shield is carried.
func (e *Equipment) HasShield() bool { return e.shield }

// AllWeapons returns the equipped weapons in main-hand, off-hand order.
// The result is empty when unarmed.
func (e *Equipment) AllWeapons() []*Weapon {
	var weapons []*Weapon
	if e.mainHand != nil {
		weapons = append(weapons, e.mainHand)
	}
	if e.offHand != nil {
		weapons = append(weapons, e.offHand)
	}
	return weapons
}

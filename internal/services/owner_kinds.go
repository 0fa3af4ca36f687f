package services

// OwnerKind parameterizes the attachment lifecycle per owning entity,
// replacing per-entity copies of the same upload/list/delete logic.
//
// SingleSlot kinds hold at most one blob per owner under a fixed file name,
// have no metadata rows, and use overwrite uploads (replace is a single
// idempotent put). Existence is determined by listing the owner's folder,
// which distinguishes "not uploaded yet" from a transient fetch failure.
type OwnerKind struct {
	Name          string // owner_type in metadata rows and the route segment
	Namespace     string // leading storage-key path segment
	SingleSlot    bool
	FixedFileName string // single-slot only
}

var (
	OwnerServiceOrder = OwnerKind{
		Name:      "service_order",
		Namespace: "service-orders",
	}

	OwnerEquipment = OwnerKind{
		Name:      "equipment",
		Namespace: "equipment",
	}

	// The equipment nameplate photo: one blob per equipment, fixed name,
	// in-place overwrite on replace.
	OwnerEquipmentNameplate = OwnerKind{
		Name:          "equipment_nameplate",
		Namespace:     "equipment-nameplates",
		SingleSlot:    true,
		FixedFileName: "nameplate.jpg",
	}
)

var ownerKinds = map[string]OwnerKind{
	OwnerServiceOrder.Name:       OwnerServiceOrder,
	OwnerEquipment.Name:          OwnerEquipment,
	OwnerEquipmentNameplate.Name: OwnerEquipmentNameplate,
}

// OwnerKindByName resolves a route segment to a registered kind.
func OwnerKindByName(name string) (OwnerKind, bool) {
	kind, ok := ownerKinds[name]
	return kind, ok
}

// OwnerKindNames lists the registered kind names (for validation rules).
func OwnerKindNames() []string {
	names := make([]string, 0, len(ownerKinds))
	for name := range ownerKinds {
		names = append(names, name)
	}
	return names
}

package models

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Collator is not safe for concurrent use.
var (
	nameCollatorMu sync.Mutex
	nameCollator   = collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
)

// CompareNames orders display names ignoring case, with accented letters next
// to their base letter. Stores use it for products and team members.
func CompareNames(a, b string) int {
	nameCollatorMu.Lock()
	defer nameCollatorMu.Unlock()
	return nameCollator.CompareString(a, b)
}

// Role enumerates the team assignments on the factory floor.
type Role string

const (
	RolePackaging Role = "packaging"
	RoleBagging   Role = "bagging"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePackaging || r == RoleBagging
}

// BoxNumber identifies one of the two production lines.
type BoxNumber int

const (
	Box1 BoxNumber = 1
	Box2 BoxNumber = 2
)

// Valid reports whether b is one of the two lines.
func (b BoxNumber) Valid() bool {
	return b == Box1 || b == Box2
}

// Product is a bagged product made on the lines.
type Product struct {
	ID           string `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name"`
	WeightPerBag int    `bson:"weightPerBag" json:"weightPerBag"` // kg
}

// Validate checks the fields a product needs before it is stored.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "name is required")
	}
	if p.WeightPerBag <= 0 {
		return invalid("weightPerBag", "weight per bag must be a positive integer")
	}
	return nil
}

// TeamMember is a collaborator, either packaging or bagging on a given box.
type TeamMember struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Role      Role       `bson:"role" json:"role"`
	BoxNumber *BoxNumber `bson:"boxNumber,omitempty" json:"boxNumber,omitempty"`
}

// Validate enforces role=bagging <=> boxNumber in {1,2}.
func (m TeamMember) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "name is required")
	}
	if !m.Role.Valid() {
		return invalid("role", "role must be packaging or bagging")
	}

	switch m.Role {
	case RoleBagging:
		if m.BoxNumber == nil || !m.BoxNumber.Valid() {
			return invalid("boxNumber", "bagging members need box 1 or 2")
		}
	case RolePackaging:
		if m.BoxNumber != nil {
			return invalid("boxNumber", "packaging members have no box")
		}
	}
	return nil
}

// ProductPatch carries the editable product fields; nil fields are left as-is.
type ProductPatch struct {
	Name         *string
	WeightPerBag *int
}

// Apply returns p with the patch applied.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = strings.TrimSpace(*pp.Name)
	}
	if pp.WeightPerBag != nil {
		p.WeightPerBag = *pp.WeightPerBag
	}
	return p
}

// Fields converts the patch into a store patch keyed by stored field names.
func (pp ProductPatch) Fields() Patch {
	out := Patch{}
	if pp.Name != nil {
		out["name"] = strings.TrimSpace(*pp.Name)
	}
	if pp.WeightPerBag != nil {
		out["weightPerBag"] = *pp.WeightPerBag
	}
	return out
}

package models

// DefaultProducts is the catalog installed on an empty store.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Ração Bovina", WeightPerBag: 30},
		{ID: "2", Name: "Proteinado", WeightPerBag: 25},
	}
}

// DefaultTeam is the team installed on an empty store.
func DefaultTeam() []TeamMember {
	box1, box2 := Box1, Box2
	return []TeamMember{
		{ID: "1", Name: "Maria Silva", Role: RolePackaging},
		{ID: "2", Name: "Ana Costa", Role: RolePackaging},
		{ID: "3", Name: "João Santos", Role: RoleBagging, BoxNumber: &box1},
		{ID: "4", Name: "Pedro Lima", Role: RoleBagging, BoxNumber: &box2},
	}
}

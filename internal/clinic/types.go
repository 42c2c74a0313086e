package clinic

// Kind identifies one of the three top-level collections.
type Kind string

const (
	KindPatient   Kind = "patient"
	KindMaterial  Kind = "material"
	KindProcedure Kind = "procedure"
)

// Endpoint returns the remote collection path for the kind.
// The remote API keeps the original Portuguese route names.
func (k Kind) Endpoint() string {
	switch k {
	case KindPatient:
		return "/pacientes"
	case KindMaterial:
		return "/materiais"
	case KindProcedure:
		return "/procedimentos"
	}
	return ""
}

// Patient is a person treated by the clinic.
// The identifier is assigned by the backing store on create and is
// immutable afterwards.
type Patient struct {
	ID      string
	Name    string
	Age     int
	Loyalty int // loyalty points, never negative
}

// Material is a consumable or reusable supply item.
type Material struct {
	ID       string
	Name     string
	Quantity int     // units on hand
	Value    float64 // unit value in BRL
	Reusable bool
}

// MaterialUsage records one material reference inside a procedure,
// with the quantity consumed. It is owned by its procedure and is not
// independently addressable.
type MaterialUsage struct {
	MaterialID string
	Quantity   int
}

// Procedure is a billable intervention. PatientID may be empty: a
// procedure can exist unassigned.
type Procedure struct {
	ID        string
	Name      string
	Assistant bool // requires an assistant
	Duration  int  // minutes
	Price     float64
	PatientID string
	Materials []MaterialUsage
}

// ResolvedUsage pairs a usage with the material snapshot it resolved
// to at enrichment time. Material is nil when the reference does not
// resolve against the current materials collection; that is not an
// error, enrichment is best-effort.
type ResolvedUsage struct {
	MaterialUsage
	Material *Material
}

// EnrichedProcedure is the read-only projection returned by procedure
// reads: the procedure plus its usages joined against the materials
// collection. It is rebuilt on every read and never persisted.
type EnrichedProcedure struct {
	Procedure
	Resolved []ResolvedUsage
}

// Enrich joins a procedure's usages against a materials snapshot.
func Enrich(p Procedure, materials []Material) EnrichedProcedure {
	byID := make(map[string]Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}
	out := EnrichedProcedure{Procedure: p, Resolved: make([]ResolvedUsage, 0, len(p.Materials))}
	for _, u := range p.Materials {
		ru := ResolvedUsage{MaterialUsage: u}
		if m, ok := byID[u.MaterialID]; ok {
			snap := m
			ru.Material = &snap
		}
		out.Resolved = append(out.Resolved, ru)
	}
	return out
}

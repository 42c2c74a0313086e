package clinic

// Wire representation of the three collections. The remote API (and
// the local slots, which mirror it) keeps the original field naming:
// Portuguese names, mixed snake/camel case, and single-character
// "S"/"N" codes for boolean flags. Callers of the store never see
// these shapes; conversion happens at the serialization boundary.

// PatientWire is the remote shape of a Patient.
type PatientWire struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"nome_paciente"`
	Age     int    `json:"idade"`
	Loyalty int    `json:"fidelidade"`
}

// MaterialWire is the remote shape of a Material.
type MaterialWire struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"nome_material"`
	Quantity int     `json:"quantidade"`
	Value    float64 `json:"valor"`
	Reusable string  `json:"reutilizavel"` // "S" or "N"
}

// UsageWire is the remote shape of a MaterialUsage.
type UsageWire struct {
	MaterialID string `json:"materialId"`
	Quantity   int    `json:"quantidade"`
}

// ProcedureWire is the remote shape of a Procedure.
type ProcedureWire struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"nome_procedimento"`
	Assistant string      `json:"assistente"` // "S" or "N"
	Duration  int         `json:"duracao"`
	Price     float64     `json:"valorFinal"`
	PatientID string      `json:"pacienteId,omitempty"`
	Materials []UsageWire `json:"materiais"`
}

func flagCode(b bool) string {
	if b {
		return "S"
	}
	return "N"
}

// ToWire converts a Patient to its remote shape.
func (p Patient) ToWire() PatientWire {
	return PatientWire{ID: p.ID, Name: p.Name, Age: p.Age, Loyalty: p.Loyalty}
}

// FromWire converts a remote patient record to the domain shape.
func (w PatientWire) FromWire() Patient {
	return Patient{ID: w.ID, Name: w.Name, Age: w.Age, Loyalty: w.Loyalty}
}

// ToWire converts a Material to its remote shape.
func (m Material) ToWire() MaterialWire {
	return MaterialWire{ID: m.ID, Name: m.Name, Quantity: m.Quantity, Value: m.Value, Reusable: flagCode(m.Reusable)}
}

// FromWire converts a remote material record to the domain shape.
func (w MaterialWire) FromWire() Material {
	return Material{ID: w.ID, Name: w.Name, Quantity: w.Quantity, Value: w.Value, Reusable: isFlagSet(w.Reusable)}
}

// ToWire converts a Procedure to its remote shape.
func (p Procedure) ToWire() ProcedureWire {
	w := ProcedureWire{
		ID:        p.ID,
		Name:      p.Name,
		Assistant: flagCode(p.Assistant),
		Duration:  p.Duration,
		Price:     p.Price,
		PatientID: p.PatientID,
		Materials: make([]UsageWire, 0, len(p.Materials)),
	}
	for _, u := range p.Materials {
		w.Materials = append(w.Materials, UsageWire{MaterialID: u.MaterialID, Quantity: u.Quantity})
	}
	return w
}

// FromWire converts a remote procedure record to the domain shape.
func (w ProcedureWire) FromWire() Procedure {
	p := Procedure{
		ID:        w.ID,
		Name:      w.Name,
		Assistant: isFlagSet(w.Assistant),
		Duration:  w.Duration,
		Price:     w.Price,
		PatientID: w.PatientID,
		Materials: make([]MaterialUsage, 0, len(w.Materials)),
	}
	for _, u := range w.Materials {
		p.Materials = append(p.Materials, MaterialUsage{MaterialID: u.MaterialID, Quantity: u.Quantity})
	}
	return p
}

package store

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

//go:embed seed.yaml
var seedYAML []byte

type seedUsage struct {
	MaterialID string `yaml:"material_id"`
	Quantity   int    `yaml:"quantity"`
}

type seedProcedure struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Assistant bool        `yaml:"assistant"`
	Duration  int         `yaml:"duration"`
	Price     float64     `yaml:"price"`
	PatientID string      `yaml:"patient_id"`
	Materials []seedUsage `yaml:"materials"`
}

type seedFile struct {
	Patients []struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Age     int    `yaml:"age"`
		Loyalty int    `yaml:"loyalty"`
	} `yaml:"patients"`
	Materials []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Quantity int     `yaml:"quantity"`
		Value    float64 `yaml:"value"`
		Reusable bool    `yaml:"reusable"`
	} `yaml:"materials"`
	Procedures []seedProcedure `yaml:"procedures"`
}

// seed fills any absent slot with the embedded placeholder records.
// Slots that already exist are left alone, even when empty: seeding
// happens once per slot, not once per record.
func (l *Local) seed(ctx context.Context) error {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return fmt.Errorf("parse seed fixture: %w", err)
	}

	patients := make([]clinic.PatientWire, 0, len(f.Patients))
	for _, p := range f.Patients {
		patients = append(patients, clinic.Patient{ID: p.ID, Name: p.Name, Age: p.Age, Loyalty: p.Loyalty}.ToWire())
	}
	if err := slotSeed(ctx, l, slotPatients, patients); err != nil {
		return err
	}

	materials := make([]clinic.MaterialWire, 0, len(f.Materials))
	for _, m := range f.Materials {
		materials = append(materials, clinic.Material{ID: m.ID, Name: m.Name, Quantity: m.Quantity, Value: m.Value, Reusable: m.Reusable}.ToWire())
	}
	if err := slotSeed(ctx, l, slotMaterials, materials); err != nil {
		return err
	}

	procedures := make([]clinic.ProcedureWire, 0, len(f.Procedures))
	for _, p := range f.Procedures {
		proc := clinic.Procedure{
			ID:        p.ID,
			Name:      p.Name,
			Assistant: p.Assistant,
			Duration:  p.Duration,
			Price:     p.Price,
			PatientID: p.PatientID,
		}
		for _, u := range p.Materials {
			proc.Materials = append(proc.Materials, clinic.MaterialUsage{MaterialID: u.MaterialID, Quantity: u.Quantity})
		}
		procedures = append(procedures, proc.ToWire())
	}
	return slotSeed(ctx, l, slotProcedures, procedures)
}

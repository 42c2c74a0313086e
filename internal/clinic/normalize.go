package clinic

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fields is the raw input of a create or update operation: whatever
// the caller collected from its form or flags. Keys are matched
// against a tolerant alias set per semantic field (English and
// Portuguese spellings, snake and camel case) so callers never need
// to know the remote naming convention; values are coerced to the
// canonical types before transmission.
type Fields map[string]any

// Alias sets, first entry is the canonical caller-facing name.
var (
	aliasName      = []string{"name", "nome", "nome_paciente", "nome_material", "nome_procedimento", "patient_name", "material_name"}
	aliasAge       = []string{"age", "idade"}
	aliasLoyalty   = []string{"loyalty", "fidelidade", "loyalty_score"}
	aliasQuantity  = []string{"quantity", "quantidade", "qty"}
	aliasValue     = []string{"value", "valor", "unit_value"}
	aliasReusable  = []string{"reusable", "reutilizavel"}
	aliasAssistant = []string{"assistant", "assistente", "requires_assistant"}
	aliasDuration  = []string{"duration", "duracao", "duration_minutes"}
	aliasPrice     = []string{"price", "valorFinal", "valor_final", "final_price"}
	aliasPatientID = []string{"patient_id", "pacienteId", "paciente_id"}
	aliasMaterials = []string{"materials", "materiais"}
	aliasMatID     = []string{"material_id", "materialId"}
)

func lookup(f Fields, aliases []string) (any, bool) {
	for _, k := range aliases {
		if v, ok := f[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func coerceString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// coerceBool accepts a boolean or the single-character domain codes
// "S"/"N" (sim/não) in either case.
func coerceBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToUpper(strings.TrimSpace(b)) {
		case "S":
			return true, nil
		case "N":
			return false, nil
		}
		return false, fmt.Errorf("expected boolean or S/N code, got %q", b)
	default:
		return false, fmt.Errorf("expected boolean or S/N code, got %T", v)
	}
}

func isFlagSet(code string) bool {
	b, err := coerceBool(code)
	return err == nil && b
}

func required(f Fields, aliases []string) (any, error) {
	v, ok := lookup(f, aliases)
	if !ok {
		return nil, &ValidationError{Field: aliases[0], Reason: "required"}
	}
	return v, nil
}

func invalid(aliases []string, err error) error {
	return &ValidationError{Field: aliases[0], Reason: err.Error()}
}

// NormalizePatient validates and coerces patient input into a full
// record. The returned record carries no identifier; the store
// assigns one on create or supplies the addressed one on update.
func NormalizePatient(f Fields) (Patient, error) {
	var p Patient

	v, err := required(f, aliasName)
	if err != nil {
		return p, err
	}
	if p.Name, err = coerceString(v); err != nil || p.Name == "" {
		return p, invalid(aliasName, fmt.Errorf("must be a non-empty string"))
	}

	if v, err = required(f, aliasAge); err != nil {
		return p, err
	}
	if p.Age, err = coerceInt(v); err != nil {
		return p, invalid(aliasAge, err)
	}
	if p.Age < 0 {
		return p, invalid(aliasAge, fmt.Errorf("must not be negative"))
	}

	// Loyalty defaults to 0 when absent.
	if v, ok := lookup(f, aliasLoyalty); ok {
		if p.Loyalty, err = coerceInt(v); err != nil {
			return p, invalid(aliasLoyalty, err)
		}
		if p.Loyalty < 0 {
			return p, invalid(aliasLoyalty, fmt.Errorf("must not be negative"))
		}
	}

	return p, nil
}

// NormalizeMaterial validates and coerces material input into a full
// record.
func NormalizeMaterial(f Fields) (Material, error) {
	var m Material

	v, err := required(f, aliasName)
	if err != nil {
		return m, err
	}
	if m.Name, err = coerceString(v); err != nil || m.Name == "" {
		return m, invalid(aliasName, fmt.Errorf("must be a non-empty string"))
	}

	if v, err = required(f, aliasQuantity); err != nil {
		return m, err
	}
	if m.Quantity, err = coerceInt(v); err != nil {
		return m, invalid(aliasQuantity, err)
	}
	if m.Quantity < 0 {
		return m, invalid(aliasQuantity, fmt.Errorf("must not be negative"))
	}

	if v, err = required(f, aliasValue); err != nil {
		return m, err
	}
	if m.Value, err = coerceFloat(v); err != nil {
		return m, invalid(aliasValue, err)
	}
	if m.Value < 0 {
		return m, invalid(aliasValue, fmt.Errorf("must not be negative"))
	}

	if v, ok := lookup(f, aliasReusable); ok {
		if m.Reusable, err = coerceBool(v); err != nil {
			return m, invalid(aliasReusable, err)
		}
	}

	return m, nil
}

// NormalizeProcedure validates and coerces procedure input into a
// full record, including its owned material usages.
func NormalizeProcedure(f Fields) (Procedure, error) {
	var p Procedure

	v, err := required(f, aliasName)
	if err != nil {
		return p, err
	}
	if p.Name, err = coerceString(v); err != nil || p.Name == "" {
		return p, invalid(aliasName, fmt.Errorf("must be a non-empty string"))
	}

	if v, err = required(f, aliasDuration); err != nil {
		return p, err
	}
	if p.Duration, err = coerceInt(v); err != nil {
		return p, invalid(aliasDuration, err)
	}
	if p.Duration <= 0 {
		return p, invalid(aliasDuration, fmt.Errorf("must be positive"))
	}

	if v, ok := lookup(f, aliasPrice); ok {
		if p.Price, err = coerceFloat(v); err != nil {
			return p, invalid(aliasPrice, err)
		}
		if p.Price < 0 {
			return p, invalid(aliasPrice, fmt.Errorf("must not be negative"))
		}
	}

	if v, ok := lookup(f, aliasAssistant); ok {
		if p.Assistant, err = coerceBool(v); err != nil {
			return p, invalid(aliasAssistant, err)
		}
	}

	// A procedure may be unassigned: patient reference is optional.
	if v, ok := lookup(f, aliasPatientID); ok {
		if p.PatientID, err = coerceString(v); err != nil {
			return p, invalid(aliasPatientID, err)
		}
	}

	if v, ok := lookup(f, aliasMaterials); ok {
		usages, err := normalizeUsages(v)
		if err != nil {
			return p, err
		}
		p.Materials = usages
	}

	return p, nil
}

// normalizeUsages coerces the materials list of a procedure. Entries
// may arrive as Fields, map[string]any or MaterialUsage values.
func normalizeUsages(v any) ([]MaterialUsage, error) {
	var raw []any
	switch list := v.(type) {
	case []any:
		raw = list
	case []Fields:
		for _, e := range list {
			raw = append(raw, e)
		}
	case []MaterialUsage:
		out := make([]MaterialUsage, len(list))
		copy(out, list)
		for _, u := range out {
			if err := validateUsage(u); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, invalid(aliasMaterials, fmt.Errorf("expected a list, got %T", v))
	}

	out := make([]MaterialUsage, 0, len(raw))
	for _, e := range raw {
		var entry Fields
		switch m := e.(type) {
		case Fields:
			entry = m
		case map[string]any:
			entry = Fields(m)
		case MaterialUsage:
			if err := validateUsage(m); err != nil {
				return nil, err
			}
			out = append(out, m)
			continue
		default:
			return nil, invalid(aliasMaterials, fmt.Errorf("expected usage entries, got %T", e))
		}

		v, err := required(entry, aliasMatID)
		if err != nil {
			return nil, err
		}
		var u MaterialUsage
		if u.MaterialID, err = coerceString(v); err != nil || u.MaterialID == "" {
			return nil, invalid(aliasMatID, fmt.Errorf("must be a non-empty string"))
		}
		if v, err = required(entry, aliasQuantity); err != nil {
			return nil, err
		}
		if u.Quantity, err = coerceInt(v); err != nil {
			return nil, invalid(aliasQuantity, err)
		}
		if err := validateUsage(u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func validateUsage(u MaterialUsage) error {
	if u.MaterialID == "" {
		return invalid(aliasMatID, fmt.Errorf("must be a non-empty string"))
	}
	if u.Quantity <= 0 {
		return invalid(aliasQuantity, fmt.Errorf("usage quantity must be positive"))
	}
	return nil
}

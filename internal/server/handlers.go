package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/pricing"
)

// Field sets are rebuilt from the wire payloads so creates and
// updates run through the same normalization the stores apply. Flag
// codes are forwarded only when present; an absent code keeps the
// normalization default.

func patientFields(w clinic.PatientWire) clinic.Fields {
	return clinic.Fields{"name": w.Name, "age": w.Age, "loyalty": w.Loyalty}
}

func materialFields(w clinic.MaterialWire) clinic.Fields {
	f := clinic.Fields{"name": w.Name, "quantity": w.Quantity, "value": w.Value}
	if w.Reusable != "" {
		f["reusable"] = w.Reusable
	}
	return f
}

func procedureFields(w clinic.ProcedureWire) clinic.Fields {
	usages := make([]clinic.MaterialUsage, 0, len(w.Materials))
	for _, u := range w.Materials {
		usages = append(usages, clinic.MaterialUsage{MaterialID: u.MaterialID, Quantity: u.Quantity})
	}
	f := clinic.Fields{
		"name":       w.Name,
		"duration":   w.Duration,
		"price":      w.Price,
		"patient_id": w.PatientID,
		"materials":  usages,
	}
	if w.Assistant != "" {
		f["assistant"] = w.Assistant
	}
	return f
}

/* Patients */

func (s *Server) listPatients(c echo.Context) error {
	patients, err := s.store.Patients().List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	out := make([]clinic.PatientWire, 0, len(patients))
	for _, p := range patients {
		out = append(out, p.ToWire())
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getPatient(c echo.Context) error {
	p, err := s.store.Patients().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "paciente não encontrado")
	}
	return c.JSON(http.StatusOK, p.ToWire())
}

func (s *Server) createPatient(c echo.Context) error {
	var w clinic.PatientWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	p, err := s.store.Patients().Create(c.Request().Context(), patientFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p.ToWire())
}

func (s *Server) updatePatient(c echo.Context) error {
	var w clinic.PatientWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	p, err := s.store.Patients().Update(c.Request().Context(), c.Param("id"), patientFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p.ToWire())
}

func (s *Server) deletePatient(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	p, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "paciente não encontrado")
	}
	if err := s.store.Patients().Delete(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

/* Materials */

func (s *Server) listMaterials(c echo.Context) error {
	materials, err := s.store.Materials().List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	out := make([]clinic.MaterialWire, 0, len(materials))
	for _, m := range materials {
		out = append(out, m.ToWire())
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getMaterial(c echo.Context) error {
	m, err := s.store.Materials().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "material não encontrado")
	}
	return c.JSON(http.StatusOK, m.ToWire())
}

func (s *Server) createMaterial(c echo.Context) error {
	var w clinic.MaterialWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	m, err := s.store.Materials().Create(c.Request().Context(), materialFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m.ToWire())
}

func (s *Server) updateMaterial(c echo.Context) error {
	var w clinic.MaterialWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	m, err := s.store.Materials().Update(c.Request().Context(), c.Param("id"), materialFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.ToWire())
}

func (s *Server) deleteMaterial(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	m, err := s.store.Materials().Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "material não encontrado")
	}
	if err := s.store.Materials().Delete(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

/* Procedures */

// Procedure responses carry the raw record. Enrichment is a read-side
// concern of the consuming strategy, which joins against /materiais
// itself; serving a pre-joined shape would desynchronize the two.

func (s *Server) listProcedures(c echo.Context) error {
	procedures, err := s.store.Procedures().List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	out := make([]clinic.ProcedureWire, 0, len(procedures))
	for _, e := range procedures {
		out = append(out, e.Procedure.ToWire())
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProcedure(c echo.Context) error {
	e, err := s.store.Procedures().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if e == nil {
		return echo.NewHTTPError(http.StatusNotFound, "procedimento não encontrado")
	}
	return c.JSON(http.StatusOK, e.Procedure.ToWire())
}

// priceQuote is the /preco response shape.
type priceQuote struct {
	pricing.Quote
	Details string `json:"detalhamento"`
}

func (s *Server) priceProcedure(c echo.Context) error {
	ctx := c.Request().Context()
	e, err := s.store.Procedures().Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if e == nil {
		return echo.NewHTTPError(http.StatusNotFound, "procedimento não encontrado")
	}

	var patient *clinic.Patient
	if e.PatientID != "" {
		patient, err = s.store.Patients().Get(ctx, e.PatientID)
		if err != nil {
			return httpError(err)
		}
	}

	q := pricing.ForProcedure(*e, patient, s.rates)
	return c.JSON(http.StatusOK, priceQuote{Quote: q, Details: q.Describe()})
}

func (s *Server) createProcedure(c echo.Context) error {
	var w clinic.ProcedureWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	p, err := s.store.Procedures().Create(c.Request().Context(), procedureFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p.ToWire())
}

func (s *Server) updateProcedure(c echo.Context) error {
	var w clinic.ProcedureWire
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}
	p, err := s.store.Procedures().Update(c.Request().Context(), c.Param("id"), procedureFields(w))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p.ToWire())
}

func (s *Server) deleteProcedure(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	e, err := s.store.Procedures().Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if e == nil {
		return echo.NewHTTPError(http.StatusNotFound, "procedimento não encontrado")
	}
	if err := s.store.Procedures().Delete(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

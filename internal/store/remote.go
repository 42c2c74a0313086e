package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

// Remote is the production strategy: every operation is exactly one
// HTTP exchange against the collection endpoint for its resource kind
// (procedure reads add the auxiliary materials list for enrichment).
// No retries, no caching, no timeout: a failed exchange surfaces
// immediately and a retry is a new user-initiated call.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates the remote strategy against baseURL. A nil client
// selects a plain http.Client.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Close satisfies Store; the remote strategy holds no resources.
func (r *Remote) Close() error { return nil }

func (r *Remote) Patients() Patients     { return remotePatients{r} }
func (r *Remote) Materials() Materials   { return remoteMaterials{r} }
func (r *Remote) Procedures() Procedures { return remoteProcedures{r} }

// exchange performs one request/response round trip. A transport
// failure (or an unencodable body) is a CommunicationError with Err
// set; otherwise the status and raw body are returned for the caller
// to interpret, since absence is meaningful on some operations.
func (r *Remote) exchange(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, &clinic.CommunicationError{Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return 0, nil, &clinic.CommunicationError{Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, &clinic.CommunicationError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &clinic.CommunicationError{Err: fmt.Errorf("read response: %w", err)}
	}
	return resp.StatusCode, raw, nil
}

func success(status int) bool { return status >= 200 && status < 300 }

func decodeInto[W any](raw []byte) (W, error) {
	var w W
	if err := json.Unmarshal(raw, &w); err != nil {
		var zero W
		return zero, &clinic.CommunicationError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return w, nil
}

// remoteList fetches a whole collection. Every call is a fresh round
// trip; list results are never cached across calls.
func remoteList[W any](ctx context.Context, r *Remote, kind clinic.Kind) ([]W, error) {
	status, raw, err := r.exchange(ctx, http.MethodGet, kind.Endpoint(), nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, &clinic.CommunicationError{Status: status, Body: string(raw)}
	}
	return decodeInto[[]W](raw)
}

// remoteGet fetches one record. A 404 is the remote signalling
// absence and maps to (zero, false, nil), not an error.
func remoteGet[W any](ctx context.Context, r *Remote, kind clinic.Kind, id string) (W, bool, error) {
	var zero W
	status, raw, err := r.exchange(ctx, http.MethodGet, kind.Endpoint()+"/"+id, nil)
	if err != nil {
		return zero, false, err
	}
	if status == http.StatusNotFound {
		return zero, false, nil
	}
	if !success(status) {
		return zero, false, &clinic.CommunicationError{Status: status, Body: string(raw)}
	}
	w, err := decodeInto[W](raw)
	return w, err == nil, err
}

func remoteCreate[W any](ctx context.Context, r *Remote, kind clinic.Kind, in W) (W, error) {
	var zero W
	status, raw, err := r.exchange(ctx, http.MethodPost, kind.Endpoint(), in)
	if err != nil {
		return zero, err
	}
	if !success(status) {
		return zero, &clinic.CommunicationError{Status: status, Body: string(raw)}
	}
	return decodeInto[W](raw)
}

// remoteUpdate replaces the record at id. A 404 means the identifier
// does not exist in the backing collection: NotFoundError.
func remoteUpdate[W any](ctx context.Context, r *Remote, kind clinic.Kind, id string, in W) (W, error) {
	var zero W
	status, raw, err := r.exchange(ctx, http.MethodPut, kind.Endpoint()+"/"+id, in)
	if err != nil {
		return zero, err
	}
	if status == http.StatusNotFound {
		return zero, &clinic.NotFoundError{Kind: kind, ID: id}
	}
	if !success(status) {
		return zero, &clinic.CommunicationError{Status: status, Body: string(raw)}
	}
	return decodeInto[W](raw)
}

// remoteDelete removes the record at id. Any error status surfaces as
// CommunicationError carrying the response text.
func remoteDelete(ctx context.Context, r *Remote, kind clinic.Kind, id string) error {
	status, raw, err := r.exchange(ctx, http.MethodDelete, kind.Endpoint()+"/"+id, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return &clinic.CommunicationError{Status: status, Body: string(raw)}
	}
	return nil
}

/* Patients */

type remotePatients struct{ r *Remote }

func (s remotePatients) List(ctx context.Context) ([]clinic.Patient, error) {
	rows, err := remoteList[clinic.PatientWire](ctx, s.r, clinic.KindPatient)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.Patient, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.FromWire())
	}
	return out, nil
}

func (s remotePatients) Get(ctx context.Context, id string) (*clinic.Patient, error) {
	w, ok, err := remoteGet[clinic.PatientWire](ctx, s.r, clinic.KindPatient, id)
	if err != nil || !ok {
		return nil, err
	}
	p := w.FromWire()
	return &p, nil
}

func (s remotePatients) Create(ctx context.Context, fields clinic.Fields) (*clinic.Patient, error) {
	p, err := clinic.NormalizePatient(fields)
	if err != nil {
		return nil, err
	}
	w, err := remoteCreate(ctx, s.r, clinic.KindPatient, p.ToWire())
	if err != nil {
		return nil, err
	}
	created := w.FromWire()
	return &created, nil
}

func (s remotePatients) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Patient, error) {
	p, err := clinic.NormalizePatient(fields)
	if err != nil {
		return nil, err
	}
	p.ID = id
	w, err := remoteUpdate(ctx, s.r, clinic.KindPatient, id, p.ToWire())
	if err != nil {
		return nil, err
	}
	updated := w.FromWire()
	return &updated, nil
}

func (s remotePatients) Delete(ctx context.Context, id string) error {
	return remoteDelete(ctx, s.r, clinic.KindPatient, id)
}

/* Materials */

type remoteMaterials struct{ r *Remote }

func (s remoteMaterials) List(ctx context.Context) ([]clinic.Material, error) {
	rows, err := remoteList[clinic.MaterialWire](ctx, s.r, clinic.KindMaterial)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.Material, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.FromWire())
	}
	return out, nil
}

func (s remoteMaterials) Get(ctx context.Context, id string) (*clinic.Material, error) {
	w, ok, err := remoteGet[clinic.MaterialWire](ctx, s.r, clinic.KindMaterial, id)
	if err != nil || !ok {
		return nil, err
	}
	m := w.FromWire()
	return &m, nil
}

func (s remoteMaterials) Create(ctx context.Context, fields clinic.Fields) (*clinic.Material, error) {
	m, err := clinic.NormalizeMaterial(fields)
	if err != nil {
		return nil, err
	}
	w, err := remoteCreate(ctx, s.r, clinic.KindMaterial, m.ToWire())
	if err != nil {
		return nil, err
	}
	created := w.FromWire()
	return &created, nil
}

func (s remoteMaterials) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Material, error) {
	m, err := clinic.NormalizeMaterial(fields)
	if err != nil {
		return nil, err
	}
	m.ID = id
	w, err := remoteUpdate(ctx, s.r, clinic.KindMaterial, id, m.ToWire())
	if err != nil {
		return nil, err
	}
	updated := w.FromWire()
	return &updated, nil
}

func (s remoteMaterials) Delete(ctx context.Context, id string) error {
	return remoteDelete(ctx, s.r, clinic.KindMaterial, id)
}

/* Procedures */

type remoteProcedures struct{ r *Remote }

// materials fetches the auxiliary snapshot used for enrichment. The
// join always runs against the materials collection as it is right
// now; a deleted material simply stops resolving.
func (s remoteProcedures) materials(ctx context.Context) ([]clinic.Material, error) {
	rows, err := remoteList[clinic.MaterialWire](ctx, s.r, clinic.KindMaterial)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.Material, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.FromWire())
	}
	return out, nil
}

func (s remoteProcedures) List(ctx context.Context) ([]clinic.EnrichedProcedure, error) {
	rows, err := remoteList[clinic.ProcedureWire](ctx, s.r, clinic.KindProcedure)
	if err != nil {
		return nil, err
	}
	mats, err := s.materials(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.EnrichedProcedure, 0, len(rows))
	for _, w := range rows {
		out = append(out, clinic.Enrich(w.FromWire(), mats))
	}
	return out, nil
}

func (s remoteProcedures) Get(ctx context.Context, id string) (*clinic.EnrichedProcedure, error) {
	w, ok, err := remoteGet[clinic.ProcedureWire](ctx, s.r, clinic.KindProcedure, id)
	if err != nil || !ok {
		return nil, err
	}
	mats, err := s.materials(ctx)
	if err != nil {
		return nil, err
	}
	e := clinic.Enrich(w.FromWire(), mats)
	return &e, nil
}

func (s remoteProcedures) ListByPatient(ctx context.Context, patientID string) ([]clinic.EnrichedProcedure, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.EnrichedProcedure, 0, len(all))
	for _, e := range all {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s remoteProcedures) Create(ctx context.Context, fields clinic.Fields) (*clinic.Procedure, error) {
	p, err := clinic.NormalizeProcedure(fields)
	if err != nil {
		return nil, err
	}
	w, err := remoteCreate(ctx, s.r, clinic.KindProcedure, p.ToWire())
	if err != nil {
		return nil, err
	}
	created := w.FromWire()
	return &created, nil
}

func (s remoteProcedures) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Procedure, error) {
	p, err := clinic.NormalizeProcedure(fields)
	if err != nil {
		return nil, err
	}
	p.ID = id
	w, err := remoteUpdate(ctx, s.r, clinic.KindProcedure, id, p.ToWire())
	if err != nil {
		return nil, err
	}
	updated := w.FromWire()
	return &updated, nil
}

func (s remoteProcedures) Delete(ctx context.Context, id string) error {
	return remoteDelete(ctx, s.r, clinic.KindProcedure, id)
}

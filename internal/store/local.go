package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

// Slot names mirror the remote endpoint names so a dump of the local
// store reads like the remote collections.
const (
	slotPatients   = "pacientes"
	slotMaterials  = "materiais"
	slotProcedures = "procedimentos"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name    TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
`

// Local is the offline/demo strategy: three named slots in a SQLite
// database, each holding one JSON-serialized array in the wire
// naming. Every operation reads the full slot, mutates in memory and
// writes the full slot back; concurrent writers to the same slot are
// last-write-wins, exactly the isolation the contract promises.
type Local struct {
	db      *sql.DB
	latency time.Duration
}

// OpenLocal creates or opens the side-store at path, applies pragmas
// and the idempotent schema, and seeds any absent slot with the
// placeholder records. Safe to call on an existing database: seeding
// never reapplies once a slot exists.
func OpenLocal(path string, latency time.Duration) (*Local, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}

	// SQLite supports one writer at a time; a single connection
	// avoids SQLITE_BUSY on the read-modify-write cycle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("open local store: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("open local store: apply schema: %w", err)
	}

	l := &Local{db: db, latency: latency}
	if err := l.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return l, nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Local) Patients() Patients     { return localPatients{l} }
func (l *Local) Materials() Materials   { return localMaterials{l} }
func (l *Local) Procedures() Procedures { return localProcedures{l} }

// delay models the remote round trip the browser original simulated.
// Disabled by default.
func (l *Local) delay() {
	if l.latency > 0 {
		time.Sleep(l.latency)
	}
}

// newLocalID assigns identifiers in local mode. UUIDv7 is time-ordered,
// so ids stay roughly monotonic while never colliding, and are never
// reused after a delete.
func newLocalID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func slotRead[W any](ctx context.Context, l *Local, name string) ([]W, error) {
	var payload string
	err := l.db.QueryRowContext(ctx, `SELECT payload FROM collections WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", name, err)
	}
	var rows []W
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, fmt.Errorf("read slot %s: %w", name, err)
	}
	return rows, nil
}

func slotWrite[W any](ctx context.Context, l *Local, name string, rows []W) error {
	if rows == nil {
		rows = []W{}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO collections (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload
	`, name, string(payload))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	return nil
}

// slotSeed writes a slot only when it does not exist yet.
func slotSeed[W any](ctx context.Context, l *Local, name string, rows []W) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("seed slot %s: %w", name, err)
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO collections (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, string(payload))
	if err != nil {
		return fmt.Errorf("seed slot %s: %w", name, err)
	}
	return nil
}

/* Patients */

type localPatients struct{ l *Local }

func (s localPatients) List(ctx context.Context) ([]clinic.Patient, error) {
	s.l.delay()
	rows, err := slotRead[clinic.PatientWire](ctx, s.l, slotPatients)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.Patient, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.FromWire())
	}
	return out, nil
}

func (s localPatients) Get(ctx context.Context, id string) (*clinic.Patient, error) {
	s.l.delay()
	rows, err := slotRead[clinic.PatientWire](ctx, s.l, slotPatients)
	if err != nil {
		return nil, err
	}
	for _, w := range rows {
		if w.ID == id {
			p := w.FromWire()
			return &p, nil
		}
	}
	return nil, nil
}

func (s localPatients) Create(ctx context.Context, fields clinic.Fields) (*clinic.Patient, error) {
	p, err := clinic.NormalizePatient(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.PatientWire](ctx, s.l, slotPatients)
	if err != nil {
		return nil, err
	}
	p.ID = newLocalID()
	rows = append(rows, p.ToWire())
	if err := slotWrite(ctx, s.l, slotPatients, rows); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s localPatients) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Patient, error) {
	p, err := clinic.NormalizePatient(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.PatientWire](ctx, s.l, slotPatients)
	if err != nil {
		return nil, err
	}
	for i, w := range rows {
		if w.ID == id {
			p.ID = id
			rows[i] = p.ToWire() // full-record replace, no field merge
			if err := slotWrite(ctx, s.l, slotPatients, rows); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, &clinic.NotFoundError{Kind: clinic.KindPatient, ID: id}
}

func (s localPatients) Delete(ctx context.Context, id string) error {
	s.l.delay()
	rows, err := slotRead[clinic.PatientWire](ctx, s.l, slotPatients)
	if err != nil {
		return err
	}
	// Deleting an absent id is a silent no-op: delete is idempotent.
	kept := rows[:0]
	for _, w := range rows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	return slotWrite(ctx, s.l, slotPatients, kept)
}

/* Materials */

type localMaterials struct{ l *Local }

func (s localMaterials) List(ctx context.Context) ([]clinic.Material, error) {
	s.l.delay()
	rows, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.Material, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.FromWire())
	}
	return out, nil
}

func (s localMaterials) Get(ctx context.Context, id string) (*clinic.Material, error) {
	s.l.delay()
	rows, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return nil, err
	}
	for _, w := range rows {
		if w.ID == id {
			m := w.FromWire()
			return &m, nil
		}
	}
	return nil, nil
}

func (s localMaterials) Create(ctx context.Context, fields clinic.Fields) (*clinic.Material, error) {
	m, err := clinic.NormalizeMaterial(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return nil, err
	}
	m.ID = newLocalID()
	rows = append(rows, m.ToWire())
	if err := slotWrite(ctx, s.l, slotMaterials, rows); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s localMaterials) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Material, error) {
	m, err := clinic.NormalizeMaterial(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return nil, err
	}
	for i, w := range rows {
		if w.ID == id {
			m.ID = id
			rows[i] = m.ToWire()
			if err := slotWrite(ctx, s.l, slotMaterials, rows); err != nil {
				return nil, err
			}
			return &m, nil
		}
	}
	return nil, &clinic.NotFoundError{Kind: clinic.KindMaterial, ID: id}
}

func (s localMaterials) Delete(ctx context.Context, id string) error {
	s.l.delay()
	rows, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return err
	}
	kept := rows[:0]
	for _, w := range rows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	return slotWrite(ctx, s.l, slotMaterials, kept)
}

/* Procedures */

type localProcedures struct{ l *Local }

func (s localProcedures) readAll(ctx context.Context) ([]clinic.Procedure, []clinic.Material, error) {
	procs, err := slotRead[clinic.ProcedureWire](ctx, s.l, slotProcedures)
	if err != nil {
		return nil, nil, err
	}
	mats, err := slotRead[clinic.MaterialWire](ctx, s.l, slotMaterials)
	if err != nil {
		return nil, nil, err
	}
	ps := make([]clinic.Procedure, 0, len(procs))
	for _, w := range procs {
		ps = append(ps, w.FromWire())
	}
	ms := make([]clinic.Material, 0, len(mats))
	for _, w := range mats {
		ms = append(ms, w.FromWire())
	}
	return ps, ms, nil
}

func (s localProcedures) List(ctx context.Context) ([]clinic.EnrichedProcedure, error) {
	s.l.delay()
	procs, mats, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]clinic.EnrichedProcedure, 0, len(procs))
	for _, p := range procs {
		out = append(out, clinic.Enrich(p, mats))
	}
	return out, nil
}

func (s localProcedures) Get(ctx context.Context, id string) (*clinic.EnrichedProcedure, error) {
	s.l.delay()
	procs, mats, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		if p.ID == id {
			e := clinic.Enrich(p, mats)
			return &e, nil
		}
	}
	return nil, nil
}

func (s localProcedures) ListByPatient(ctx context.Context, patientID string) ([]clinic.EnrichedProcedure, error) {
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

func (s localProcedures) Create(ctx context.Context, fields clinic.Fields) (*clinic.Procedure, error) {
	p, err := clinic.NormalizeProcedure(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.ProcedureWire](ctx, s.l, slotProcedures)
	if err != nil {
		return nil, err
	}
	p.ID = newLocalID()
	rows = append(rows, p.ToWire())
	if err := slotWrite(ctx, s.l, slotProcedures, rows); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s localProcedures) Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Procedure, error) {
	p, err := clinic.NormalizeProcedure(fields)
	if err != nil {
		return nil, err
	}
	s.l.delay()
	rows, err := slotRead[clinic.ProcedureWire](ctx, s.l, slotProcedures)
	if err != nil {
		return nil, err
	}
	for i, w := range rows {
		if w.ID == id {
			p.ID = id
			rows[i] = p.ToWire()
			if err := slotWrite(ctx, s.l, slotProcedures, rows); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, &clinic.NotFoundError{Kind: clinic.KindProcedure, ID: id}
}

func (s localProcedures) Delete(ctx context.Context, id string) error {
	s.l.delay()
	rows, err := slotRead[clinic.ProcedureWire](ctx, s.l, slotProcedures)
	if err != nil {
		return err
	}
	kept := rows[:0]
	for _, w := range rows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	return slotWrite(ctx, s.l, slotProcedures, kept)
}

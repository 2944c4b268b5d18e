package refdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cargue/internal"
)

// Store reads the asset reference database. Lookups are read-only and
// bounded by a per-query timeout; a missing row is an empty result,
// not an error.
type Store struct {
	conn    *sql.DB
	timeout time.Duration
}

func Open(path string, timeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &Store{conn: conn, timeout: timeout}
	if err := s.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS assets (
  fid TEXT PRIMARY KEY,
  codigo_operativo TEXT,
  enlace TEXT,
  coordenada_x TEXT,
  coordenada_y TEXT,
  tipo TEXT,
  tipo_adecuacion TEXT,
  propietario TEXT,
  ubicacion TEXT,
  clasificacion_mercado TEXT
);
CREATE INDEX IF NOT EXISTS idx_assets_codigo ON assets(codigo_operativo);
CREATE INDEX IF NOT EXISTS idx_assets_enlace ON assets(enlace);

CREATE TABLE IF NOT EXISTS norms (
  fid TEXT PRIMARY KEY,
  norma TEXT,
  grupo TEXT,
  circuito TEXT,
  codigo_trafo TEXT,
  macronorma TEXT,
  cantidad TEXT,
  tipo_adecuacion TEXT,
  FOREIGN KEY(fid) REFERENCES assets(fid)
);
`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// ResolveCodeToFID maps a normalized operational code to the canonical
// asset id. An unknown code resolves to the empty string.
func (s *Store) ResolveCodeToFID(ctx context.Context, code string) (string, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var fid string
	err := s.conn.QueryRowContext(qctx,
		`SELECT fid FROM assets WHERE codigo_operativo = ?`, code).Scan(&fid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fid, nil
}

// ResolveLinkToFID maps a link identifier to the canonical asset id.
func (s *Store) ResolveLinkToFID(ctx context.Context, link string) (string, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var fid string
	err := s.conn.QueryRowContext(qctx,
		`SELECT fid FROM assets WHERE enlace = ?`, link).Scan(&fid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fid, nil
}

// AssetFields fetches the authoritative descriptive fields for an asset.
func (s *Store) AssetFields(ctx context.Context, fid string) (*internal.AssetFields, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var f internal.AssetFields
	err := s.conn.QueryRowContext(qctx, `
SELECT coordenada_x, coordenada_y, tipo, tipo_adecuacion, propietario, ubicacion, clasificacion_mercado
FROM assets WHERE fid = ?
`, fid).Scan(&f.CoordX, &f.CoordY, &f.Tipo, &f.Adecuacion, &f.Propietario, &f.Ubicacion, &f.MercadoClass)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// NormFields fetches the authoritative norm association for an asset.
func (s *Store) NormFields(ctx context.Context, fid string) (*internal.NormFields, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var f internal.NormFields
	err := s.conn.QueryRowContext(qctx, `
SELECT norma, grupo, circuito, codigo_trafo, macronorma, cantidad, tipo_adecuacion
FROM norms WHERE fid = ?
`, fid).Scan(&f.Norma, &f.Grupo, &f.Circuito, &f.CodigoTrafo, &f.Macronorma, &f.Cantidad, &f.Adecuacion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SeedAsset upserts one reference row, used by the seed command and by
// tests to build fixtures.
func (s *Store) SeedAsset(fid, code, link string, fields internal.AssetFields) error {
	_, err := s.conn.Exec(`
INSERT INTO assets (fid, codigo_operativo, enlace, coordenada_x, coordenada_y, tipo, tipo_adecuacion, propietario, ubicacion, clasificacion_mercado)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(fid) DO UPDATE SET
  codigo_operativo=excluded.codigo_operativo,
  enlace=excluded.enlace,
  coordenada_x=excluded.coordenada_x,
  coordenada_y=excluded.coordenada_y,
  tipo=excluded.tipo,
  tipo_adecuacion=excluded.tipo_adecuacion,
  propietario=excluded.propietario,
  ubicacion=excluded.ubicacion,
  clasificacion_mercado=excluded.clasificacion_mercado
`, fid, code, link, fields.CoordX, fields.CoordY, fields.Tipo, fields.Adecuacion, fields.Propietario, fields.Ubicacion, fields.MercadoClass)
	return err
}

// SeedNorm upserts the norm association of one asset.
func (s *Store) SeedNorm(fid string, fields internal.NormFields) error {
	_, err := s.conn.Exec(`
INSERT INTO norms (fid, norma, grupo, circuito, codigo_trafo, macronorma, cantidad, tipo_adecuacion)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(fid) DO UPDATE SET
  norma=excluded.norma,
  grupo=excluded.grupo,
  circuito=excluded.circuito,
  codigo_trafo=excluded.codigo_trafo,
  macronorma=excluded.macronorma,
  cantidad=excluded.cantidad,
  tipo_adecuacion=excluded.tipo_adecuacion
`, fid, fields.Norma, fields.Grupo, fields.Circuito, fields.CodigoTrafo, fields.Macronorma, fields.Cantidad, fields.Adecuacion)
	return err
}

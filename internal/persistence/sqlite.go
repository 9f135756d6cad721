package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
)

const schema = `
CREATE TABLE languages (
    lang_id TEXT PRIMARY KEY,
    canonical_name TEXT NOT NULL,
    source_flags TEXT,
    types TEXT,
    extensions TEXT,
    first_appeared TEXT,
    homepage TEXT,
    paradigms TEXT,
    typing TEXT,
    designed_by TEXT,
    influenced_by TEXT,
    hello_world INTEGER NOT NULL DEFAULT 0,
    linguist_key TEXT,
    evidence_urls TEXT,
    notes TEXT,
    source_count INTEGER NOT NULL DEFAULT 0,
    alias_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE aliases (
    alias TEXT NOT NULL,
    lang_id TEXT NOT NULL,
    source TEXT NOT NULL
);
CREATE INDEX idx_aliases_lang ON aliases(lang_id);
CREATE INDEX idx_aliases_alias ON aliases(alias);

CREATE TABLE extensions (
    extension TEXT NOT NULL,
    lang_id TEXT NOT NULL,
    PRIMARY KEY (extension, lang_id)
);

CREATE TABLE links (
    lang_id TEXT NOT NULL,
    source TEXT NOT NULL,
    name TEXT NOT NULL,
    tier TEXT,
    PRIMARY KEY (lang_id, source)
);

CREATE TABLE link_fields (
    lang_id TEXT NOT NULL,
    source TEXT NOT NULL,
    field TEXT NOT NULL,
    value TEXT,
    PRIMARY KEY (lang_id, source, field)
);
`

// ExportSQLite writes cat into a fresh SQLite database at path. An existing
// file is replaced.
func ExportSQLite(ctx context.Context, path string, cat *catalogs.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("remove", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.WrapIO("create schema", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("begin", path, err)
	}
	if err := insertCatalog(ctx, tx, cat); err != nil {
		_ = tx.Rollback()
		return errors.WrapIO("insert", path, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapIO("commit", path, err)
	}

	logging.FromContext(ctx).Info().
		Str("path", path).
		Int("languages", cat.Len()).
		Int("aliases", len(cat.Aliases())).
		Msg("Exported catalog to SQLite")
	return nil
}

func insertCatalog(ctx context.Context, tx *sql.Tx, cat *catalogs.Catalog) error {
	langStmt, err := tx.PrepareContext(ctx, `INSERT INTO languages VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = langStmt.Close() }()
	extStmt, err := tx.PrepareContext(ctx, `INSERT INTO extensions VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = extStmt.Close() }()
	linkStmt, err := tx.PrepareContext(ctx, `INSERT INTO links VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = linkStmt.Close() }()
	fieldStmt, err := tx.PrepareContext(ctx, `INSERT INTO link_fields VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = fieldStmt.Close() }()

	for _, l := range cat.Languages() {
		srcs, _ := cat.Value(l, catalogs.ColSources)
		if _, err := langStmt.ExecContext(ctx,
			l.ID, l.Name, srcs, l.Types, strings.Join(l.Extensions, " "),
			l.FirstAppeared, l.Homepage, l.Paradigms, l.Typing, l.DesignedBy,
			l.InfluencedBy, l.HelloWorld, l.LinguistKey, strings.Join(l.EvidenceURLs, ";"),
			l.Notes, l.SourceCount(), l.AliasCount,
		); err != nil {
			return err
		}
		for _, ext := range l.Extensions {
			if _, err := extStmt.ExecContext(ctx, ext, l.ID); err != nil {
				return err
			}
		}
		for _, src := range cat.Linked() {
			link := l.Link(src)
			if link == nil {
				continue
			}
			if _, err := linkStmt.ExecContext(ctx, l.ID, string(src), link.Name, string(link.Tier)); err != nil {
				return err
			}
			for _, f := range link.Fields {
				if _, err := fieldStmt.ExecContext(ctx, l.ID, string(src), f.Name, f.Value); err != nil {
					return err
				}
			}
		}
	}

	aliasStmt, err := tx.PrepareContext(ctx, `INSERT INTO aliases VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = aliasStmt.Close() }()
	for _, a := range cat.Aliases() {
		if _, err := aliasStmt.ExecContext(ctx, a.Alias, a.LanguageID, a.Source); err != nil {
			return err
		}
	}
	return nil
}

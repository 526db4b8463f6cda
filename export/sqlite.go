package export

import (
	"os"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/analysis"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

const sqliteSchema = `
CREATE TABLE records (
	form_id    INTEGER PRIMARY KEY,
	kind       TEXT NOT NULL,
	editor_id  TEXT,
	full_name  TEXT,
	best_name  TEXT NOT NULL,
	provenance TEXT NOT NULL
);
CREATE TABLE spawn_table (
	list_id  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	leaf_id  INTEGER NOT NULL,
	PRIMARY KEY (list_id, position)
);
CREATE TABLE actor_cells (
	actor_id INTEGER NOT NULL,
	cell_id  INTEGER NOT NULL
);
CREATE TABLE actor_refs (
	actor_id INTEGER NOT NULL,
	ref_id   INTEGER NOT NULL,
	radius   INTEGER NOT NULL
);
CREATE TABLE dialogue (
	quest_id   INTEGER,
	topic_id   INTEGER NOT NULL,
	info_id    INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	speaker_id INTEGER,
	prompt     TEXT,
	response   TEXT,
	flags      INTEGER NOT NULL
);
`

// writeSQLite stores every derived structure in a single sqlite artifact so
// downstream viewers can query it without re-running the analysis.
func writeSQLite(path string, sess *analysis.Session, overwrite bool) (err error) {
	if overwrite {
		// sqlite would happily append to a stale artifact
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	release := sqlitex.Save(conn)
	defer release(&err)

	if err = sqlitex.ExecuteScript(conn, sqliteSchema, nil); err != nil {
		return err
	}

	store := sess.Store()
	for _, id := range store.FormIDs() {
		rec := store.Get(id)
		err = sqlitex.Execute(conn,
			`INSERT INTO records (form_id, kind, editor_id, full_name, best_name, provenance) VALUES (?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				int64(rec.FormID), rec.Kind.String(), rec.EditorID, rec.FullName, sess.BestName(id), rec.Provenance.String(),
			}})
		if err != nil {
			return err
		}
	}

	for listID, leaves := range sess.SpawnTable() {
		for pos, leaf := range leaves {
			err = sqlitex.Execute(conn,
				`INSERT INTO spawn_table (list_id, position, leaf_id) VALUES (?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{int64(listID), pos, int64(leaf)}})
			if err != nil {
				return err
			}
		}
	}

	for _, kind := range []espm.Kind{espm.KindNPC, espm.KindCreature} {
		for _, rec := range store.ByKind(kind) {
			loc := sess.ActorLocations(rec.FormID)
			for _, cell := range loc.Cells {
				err = sqlitex.Execute(conn,
					`INSERT INTO actor_cells (actor_id, cell_id) VALUES (?, ?)`,
					&sqlitex.ExecOptions{Args: []any{int64(rec.FormID), int64(cell)}})
				if err != nil {
					return err
				}
			}
			for _, ref := range loc.Refs {
				err = sqlitex.Execute(conn,
					`INSERT INTO actor_refs (actor_id, ref_id, radius) VALUES (?, ?, ?)`,
					&sqlitex.ExecOptions{Args: []any{int64(rec.FormID), int64(ref.Target), int64(ref.Radius)}})
				if err != nil {
					return err
				}
			}
		}
	}

	for _, topic := range sess.DialogueTree().Topics() {
		for pos, inf := range topic.Infos {
			response := ""
			if len(inf.Info.Responses) > 0 {
				response = inf.Info.Responses[0].Text
			}
			err = sqlitex.Execute(conn,
				`INSERT INTO dialogue (quest_id, topic_id, info_id, position, speaker_id, prompt, response, flags) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{
					int64(topic.Quest), int64(topic.FormID), int64(inf.FormID), pos,
					int64(inf.Info.Speaker), inf.Info.Prompt, response, int64(inf.Info.Flags),
				}})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

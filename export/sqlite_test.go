package export

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/analysis"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

func exportSession(t *testing.T) *analysis.Session {
	t.Helper()
	store := espm.NewStore()
	for _, rec := range []*espm.Record{
		{FormID: 1, Kind: espm.KindNPC, EditorID: "MrBurke", FullName: "Mister Burke",
			Actor: &espm.ActorData{Packages: []espm.FormID{0x10}}},
		{FormID: 2, Kind: espm.KindNPC, FullName: "Lucas Simms"},
		{FormID: 0x10, Kind: espm.KindPackage,
			Package: &espm.PackageData{HasLocation: true, Loc: espm.PackageLocInCell, Target: 0x20}},
		{FormID: 0x100, Kind: espm.KindLeveledNPC,
			LeveledList: &espm.LeveledListData{Entries: []espm.LeveledEntry{
				{Target: 1, Level: 1, Count: 1},
				{Target: 2, Level: 5, Count: 1},
			}}},
		{FormID: 0x200, Kind: espm.KindTopic, EditorID: "GreetingTopic",
			Topic: &espm.TopicData{Quest: 0x500}},
		{FormID: 0x201, Kind: espm.KindInfo,
			Info: &espm.InfoData{Topic: 0x200, Speaker: 1, Prompt: "Hello there",
				Responses: []espm.Response{{Text: "Well, hello.", Number: 1}}}},
	} {
		store.Insert(rec)
	}
	return analysis.NewSession(store, zaptest.NewLogger(t))
}

func queryCount(t *testing.T, conn *sqlite.Conn, query string) int64 {
	t.Helper()
	var count int64
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return count
}

func TestWriteSQLite(t *testing.T) {
	sess := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.db")

	if err := writeSQLite(path, sess, false); err != nil {
		t.Fatalf("writeSQLite() error = %v", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		t.Fatalf("unable to open artifact: %v", err)
	}
	defer conn.Close()

	if got := queryCount(t, conn, `SELECT COUNT(*) FROM records`); got != 6 {
		t.Errorf("records count = %d, want 6", got)
	}
	if got := queryCount(t, conn, `SELECT COUNT(*) FROM spawn_table`); got != 2 {
		t.Errorf("spawn_table count = %d, want 2", got)
	}
	if got := queryCount(t, conn, `SELECT COUNT(*) FROM actor_cells`); got != 1 {
		t.Errorf("actor_cells count = %d, want 1", got)
	}
	if got := queryCount(t, conn, `SELECT COUNT(*) FROM dialogue`); got != 1 {
		t.Errorf("dialogue count = %d, want 1", got)
	}

	// leaf ordering should survive the round trip
	var leaves []int64
	err = sqlitex.Execute(conn,
		`SELECT leaf_id FROM spawn_table WHERE list_id = 256 ORDER BY position`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			leaves = append(leaves, stmt.ColumnInt64(0))
			return nil
		}})
	if err != nil {
		t.Fatalf("spawn_table query failed: %v", err)
	}
	if len(leaves) != 2 || leaves[0] != 1 || leaves[1] != 2 {
		t.Errorf("spawn_table leaves = %v, want [1 2]", leaves)
	}

	// best_name picks the display name over the editor id
	var name string
	err = sqlitex.Execute(conn,
		`SELECT best_name FROM records WHERE form_id = 1`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			name = stmt.ColumnText(0)
			return nil
		}})
	if err != nil {
		t.Fatalf("records query failed: %v", err)
	}
	if name != "Mister Burke" {
		t.Errorf("best_name = %q, want %q", name, "Mister Burke")
	}
}

func TestWriteSQLite_Overwrite(t *testing.T) {
	sess := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.db")

	if err := writeSQLite(path, sess, false); err != nil {
		t.Fatalf("first writeSQLite() error = %v", err)
	}

	// without overwrite the schema collides with the existing artifact
	if err := writeSQLite(path, sess, false); err == nil {
		t.Error("expected error when writing over an existing artifact")
	}

	if err := writeSQLite(path, sess, true); err != nil {
		t.Fatalf("writeSQLite() with overwrite error = %v", err)
	}
}

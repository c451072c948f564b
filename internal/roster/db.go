// Package roster provides SQLite-based storage for generated NPCs and a
// log of generation events.
package roster

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kaelwren/npcforge/internal/npc"
	"github.com/kaelwren/npcforge/internal/stats"
)

// DB wraps a SQLite connection for roster persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS npcs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		disposition TEXT NOT NULL,
		location TEXT,
		description TEXT,
		family_id TEXT,
		variant_id TEXT,
		overlay_id TEXT,
		generator TEXT NOT NULL,
		boss INTEGER NOT NULL,
		role TEXT,
		culture TEXT,
		stats_json TEXT,
		tags_json TEXT NOT NULL,
		abilities_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TEXT NOT NULL,
		npc_id TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_npcs_family ON npcs(family_id);
	CREATE INDEX IF NOT EXISTS idx_npcs_location ON npcs(location);
	CREATE INDEX IF NOT EXISTS idx_events_npc ON generation_events(npc_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveNPC inserts one generated NPC and logs a generation event.
func (db *DB) SaveNPC(n *npc.NPC) error {
	return db.SaveBatch([]*npc.NPC{n})
}

// SaveBatch inserts a batch of generated NPCs in one transaction.
func (db *DB) SaveBatch(batch []*npc.NPC) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO npcs
		(id, name, kind, disposition, location, description,
		 family_id, variant_id, overlay_id, generator, boss, role, culture,
		 stats_json, tags_json, abilities_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, n := range batch {
		var statsJSON []byte
		if n.Stats != nil {
			statsJSON, _ = json.Marshal(n.Stats)
		}
		tagsJSON, _ := json.Marshal(n.Known.Tags)
		abilitiesJSON, _ := json.Marshal(n.Known.Abilities)

		boss := 0
		if n.Known.Boss {
			boss = 1
		}

		_, err := stmt.Exec(
			n.ID, n.Name, n.Kind, n.Disposition, n.Location, n.Description,
			n.Known.FamilyID, n.Known.VariantID, n.Known.OverlayID,
			n.Known.Generator, boss, n.Known.Role, n.Known.Culture,
			string(statsJSON), string(tagsJSON), string(abilitiesJSON), now,
		)
		if err != nil {
			return fmt.Errorf("insert npc %s: %w", n.ID, err)
		}

		_, err = tx.Exec(
			"INSERT INTO generation_events (at, npc_id, description) VALUES (?, ?, ?)",
			now, n.ID, fmt.Sprintf("%s %q generated by %s", n.Kind, n.Name, n.Known.Generator),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("roster saved", "npcs", len(batch))
	return nil
}

// npcRow is the flat database shape of an NPC.
type npcRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Kind          string `db:"kind"`
	Disposition   string `db:"disposition"`
	Location      string `db:"location"`
	Description   string `db:"description"`
	FamilyID      string `db:"family_id"`
	VariantID     string `db:"variant_id"`
	OverlayID     string `db:"overlay_id"`
	Generator     string `db:"generator"`
	Boss          int    `db:"boss"`
	Role          string `db:"role"`
	Culture       string `db:"culture"`
	StatsJSON     string `db:"stats_json"`
	TagsJSON      string `db:"tags_json"`
	AbilitiesJSON string `db:"abilities_json"`
	CreatedAt     string `db:"created_at"`
}

func (r npcRow) toNPC() (*npc.NPC, error) {
	n := &npc.NPC{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        npc.Kind(r.Kind),
		Disposition: npc.Disposition(r.Disposition),
		Location:    r.Location,
		Description: r.Description,
		Known: npc.KnownInfo{
			FamilyID:  r.FamilyID,
			VariantID: r.VariantID,
			OverlayID: r.OverlayID,
			Generator: r.Generator,
			Boss:      r.Boss != 0,
			Role:      r.Role,
			Culture:   r.Culture,
		},
	}
	if r.StatsJSON != "" {
		var sheet stats.Sheet
		if err := json.Unmarshal([]byte(r.StatsJSON), &sheet); err != nil {
			return nil, fmt.Errorf("decode stats for npc %s: %w", r.ID, err)
		}
		n.Stats = &sheet
	}
	if err := json.Unmarshal([]byte(r.TagsJSON), &n.Known.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for npc %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.AbilitiesJSON), &n.Known.Abilities); err != nil {
		return nil, fmt.Errorf("decode abilities for npc %s: %w", r.ID, err)
	}
	return n, nil
}

// List returns up to limit NPCs, newest first. An empty location matches
// everything.
func (db *DB) List(location string, limit int) ([]*npc.NPC, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []npcRow
	var err error
	if location == "" {
		err = db.conn.Select(&rows,
			"SELECT * FROM npcs ORDER BY created_at DESC, id LIMIT ?", limit)
	} else {
		err = db.conn.Select(&rows,
			"SELECT * FROM npcs WHERE location = ? ORDER BY created_at DESC, id LIMIT ?",
			location, limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*npc.NPC, 0, len(rows))
	for _, r := range rows {
		n, err := r.toNPC()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Get retrieves one NPC by id.
func (db *DB) Get(id string) (*npc.NPC, error) {
	var row npcRow
	if err := db.conn.Get(&row, "SELECT * FROM npcs WHERE id = ?", id); err != nil {
		return nil, err
	}
	return row.toNPC()
}

// Count returns the total number of stored NPCs.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM npcs")
	return n, err
}

// Event is one generation log entry.
type Event struct {
	At          string `db:"at" json:"at"`
	NPCID       string `db:"npc_id" json:"npc_id"`
	Description string `db:"description" json:"description"`
}

// RecentEvents returns the most recent generation events.
func (db *DB) RecentEvents(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []Event
	err := db.conn.Select(&events,
		"SELECT at, npc_id, description FROM generation_events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

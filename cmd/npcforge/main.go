// Command npcforge generates NPCs from the content set, either as a
// one-shot batch or as a long-running HTTP service.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/kaelwren/npcforge/internal/api"
	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/gen"
	"github.com/kaelwren/npcforge/internal/npc"
	"github.com/kaelwren/npcforge/internal/roster"
	"github.com/kaelwren/npcforge/internal/stats"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Optional .env for local development.
	_ = godotenv.Load()

	var (
		configDir = flag.String("config", "data", "content directory (YAML files)")
		dbPath    = flag.String("db", "data/roster.db", "roster database path")
		serve     = flag.Bool("serve", false, "run the HTTP API instead of a one-shot batch")
		port      = flag.Int("port", 8080, "HTTP API port")

		familyID      = flag.String("family", "", "family id to generate from")
		variantID     = flag.String("variant", "", "variant id to generate from")
		overlayID     = flag.String("overlay", "", "overlay id to apply")
		level         = flag.Int("level", 1, "NPC level")
		difficulty    = flag.String("difficulty", "normal", "difficulty scaling key")
		encounterSize = flag.String("size", "solo", "encounter size scaling key")
		location      = flag.String("location", "", "location recorded on generated NPCs")
		count         = flag.Int("n", 1, "number of NPCs to generate")

		socialKind = flag.String("social", "", "create a social NPC instead: merchant, quest_giver, or service")
		specialty  = flag.String("specialty", "", "social NPC specialty (e.g. weapons)")
		seed       = flag.String("seed", "", "explicit seed for social NPC creation")
	)
	flag.Parse()

	store, err := config.Load(*configDir)
	if err != nil {
		slog.Error("failed to load content set", "dir", *configDir, "error", err)
		os.Exit(1)
	}

	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := roster.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open roster database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	generator := gen.New(store)

	if *serve {
		runServe(store, generator, db, *port)
		return
	}

	if *socialKind != "" {
		n, err := generator.CreateSocial(gen.SocialRequest{
			Kind:      socialKindFromFlag(*socialKind),
			Location:  *location,
			Specialty: *specialty,
			Seed:      *seed,
		})
		if err != nil {
			slog.Error("social NPC creation failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveNPC(n); err != nil {
			slog.Error("roster save failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Created %s %q (%s) at %q\n", n.Kind, n.Name, n.Known.Culture, n.Location)
		return
	}

	if *familyID == "" && *variantID == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -family or -variant, or -serve, or -social")
		flag.Usage()
		os.Exit(2)
	}

	batch := make([]*npc.NPC, 0, *count)
	for i := 0; i < *count; i++ {
		n, err := generator.Generate(gen.Request{
			FamilyID:      *familyID,
			VariantID:     *variantID,
			OverlayID:     *overlayID,
			Level:         *level,
			Difficulty:    *difficulty,
			EncounterSize: *encounterSize,
			Location:      *location,
		})
		if err != nil {
			slog.Error("generation failed", "error", err)
			os.Exit(1)
		}
		batch = append(batch, n)
	}

	if err := db.SaveBatch(batch); err != nil {
		slog.Error("roster save failed", "error", err)
		os.Exit(1)
	}

	for _, n := range batch {
		hp := 0.0
		if n.Stats != nil {
			hp, _ = n.Stats.StatValue(stats.Health)
		}
		fmt.Printf("  %-28s role=%-10s hp=%-5.0f abilities=%v tags=%v\n",
			n.Name, n.Known.Role, hp, n.Known.Abilities, n.Known.Tags)
	}

	total, err := db.Count()
	if err == nil {
		fmt.Printf("Generated %s NPC(s); roster now holds %s.\n",
			humanize.Comma(int64(len(batch))), humanize.Comma(int64(total)))
	}
}

func runServe(store *config.Store, generator *gen.Generator, db *roster.DB, port int) {
	adminKey := os.Getenv("NPCFORGE_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("NPCFORGE_ADMIN_KEY not set, generation POST endpoints will be disabled")
	}

	server := &api.Server{
		Store:    store,
		Gen:      generator,
		DB:       db,
		Port:     port,
		AdminKey: adminKey,
	}
	server.Start()

	fmt.Printf("npcforge API: http://localhost:%d/api/v1/families\n", port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

func socialKindFromFlag(kind string) npc.Kind {
	switch kind {
	case "merchant":
		return npc.KindMerchant
	case "quest_giver":
		return npc.KindQuestGiver
	case "service":
		return npc.KindService
	default:
		return npc.Kind(kind)
	}
}

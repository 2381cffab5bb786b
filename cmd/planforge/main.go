// Command planforge drives a plan-to-code implementation run: it feeds an
// implementation plan to a model and loops tool rounds until the planned
// repository is fully written.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChamsBouzaiene/planforge/internal/config"
	"github.com/ChamsBouzaiene/planforge/internal/engine"
	"github.com/ChamsBouzaiene/planforge/internal/ledger"
	"github.com/ChamsBouzaiene/planforge/internal/project"
	"github.com/ChamsBouzaiene/planforge/internal/prompts"
	"github.com/ChamsBouzaiene/planforge/internal/providers"
	"github.com/ChamsBouzaiene/planforge/internal/session"
	"github.com/ChamsBouzaiene/planforge/internal/tools"
	"github.com/ChamsBouzaiene/planforge/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("planforge: %v", err)
	}
}

func run() error {
	fs := flag.NewFlagSet("planforge", flag.ExitOnError)
	planFlag := fs.String("plan", "", "Path to the implementation plan (markdown)")
	paperFlag := fs.String("paper", "", "Optional path to the source document the plan was distilled from")
	dirFlag := fs.String("dir", "", "Target repository root (default: current directory)")
	refsFlag := fs.String("refs", "", "Optional reference codebase to index for search_references")
	watchFlag := fs.Bool("watch", false, "Keep the reference index fresh while the run is active")
	maxIterFlag := fs.Int("max-iterations", 0, "Maximum model rounds (default: 500)")
	maxTimeFlag := fs.Duration("max-time", 0, "Maximum wall-clock time (default: 5000s)")
	readToolsFlag := fs.Bool("read-tools", true, "Expose read_file and read_code_mem to the model")
	execFlag := fs.Bool("exec", false, "Expose execute_bash and execute_python (sandboxed)")
	resumeFlag := fs.String("resume", "", "Resume an earlier run by ID, continuing its ledger")
	listFlag := fs.Bool("list", false, "List previous runs for the target repository and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	userCfg := loadUserConfig()

	if *listFlag {
		return listRuns(*dirFlag)
	}

	if *planFlag == "" {
		return fmt.Errorf("-plan is required")
	}
	planData, err := os.ReadFile(*planFlag)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}
	paper := ""
	if *paperFlag != "" {
		paperData, err := os.ReadFile(*paperFlag)
		if err != nil {
			return fmt.Errorf("failed to read paper: %w", err)
		}
		paper = string(paperData)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	targetDir := *dirFlag
	if targetDir == "" {
		if targetDir, err = os.Getwd(); err != nil {
			return err
		}
	}
	projectCfg, err := project.LoadConfig(targetDir)
	if err != nil {
		log.Printf("⚠️  Failed to load project config: %v (continuing)", err)
	}
	refs := *refsFlag
	if refs == "" && projectCfg != nil {
		refs = projectCfg.ReferencePath
	}

	env, err := prepareRuntimeEnv(ctx, targetDir, refs, *resumeFlag, *watchFlag)
	if err != nil {
		return err
	}
	defer env.Close()

	initialTask := prompts.InitialTask(string(planData), paper)
	if *resumeFlag != "" {
		stats, err := env.Ledger.RunStats(ctx, env.RunID)
		if err == nil && stats.Files > 0 {
			log.Printf("▶️  Resuming run %s (%d files already implemented)", env.RunID, stats.Files)
			initialTask += prompts.ResumeNotice(stats.Files)
		}
	}
	if err := env.Ledger.CreateRun(ctx, env.RunID, initialTask); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	// Scaffold the planned tree so list_files shows the model its targets.
	if projectCfg == nil || projectCfg.BootstrapEnabled {
		planned := workspace.ParseFileTree(string(planData))
		if created, err := workspace.Bootstrap(env.RepoRoot, planned); err != nil {
			log.Printf("⚠️  File tree bootstrap failed: %v (continuing)", err)
		} else if len(created) > 0 {
			log.Printf("🌱 Created %d placeholder file(s) from the plan", len(created))
		}
	}

	llm, model, err := providers.NewLLMClientFromEnv()
	if err != nil {
		return err
	}
	if userCfg.Model != "" {
		model = userCfg.Model
	}
	log.Printf("Model: %s", model)

	reg := tools.NewToolRegistry(tools.Config{
		RepoRoot:         env.RepoRoot,
		RefIndex:         env.RefIndex,
		Ledger:           env.Ledger,
		RunID:            env.RunID,
		ReadToolsEnabled: *readToolsFlag,
		ExecutionEnabled: *execFlag,
	})

	cfg := engine.DefaultRunConfig()
	cfg.ReadToolsEnabled = *readToolsFlag
	if *maxIterFlag > 0 {
		cfg.MaxIterations = *maxIterFlag
	} else if userCfg.MaxIterations > 0 {
		cfg.MaxIterations = userCfg.MaxIterations
	}
	if *maxTimeFlag > 0 {
		cfg.MaxWallTime = *maxTimeFlag
	}

	rules, err := project.LoadRules(env.RepoRoot)
	if err != nil {
		log.Printf("⚠️  Failed to load project rules: %v (continuing)", err)
	}

	sysPrompt := func() string {
		digest, err := env.Ledger.Digest(context.Background(), env.RunID, 50)
		if err != nil {
			digest = ""
		}
		rendered, err := prompts.ImplementationSystemPrompt(digest)
		if err != nil {
			log.Printf("⚠️  Failed to render system prompt: %v", err)
			return ""
		}
		if rules != "" {
			rendered += "\n\nProject rules:\n" + rules
		}
		return rendered
	}

	controller, err := engine.NewControllerBuilder().
		WithLLM(llm).
		WithModel(model).
		WithToolRegistry(reg).
		WithConfig(cfg).
		WithRunID(env.RunID).
		WithProgressSink(ledger.NewSink(env.Ledger, env.RunID, log.Default())).
		WithSystemPrompt(sysPrompt).
		Build()
	if err != nil {
		return err
	}

	started := time.Now()
	report, runErr := controller.Run(ctx, initialTask)

	fmt.Println(report.Render())

	if err := saveRunRecord(env.RepoRoot, *planFlag, model, started, report); err != nil {
		log.Printf("⚠️  Failed to save run record: %v", err)
	}

	if runErr != nil {
		return runErr
	}
	return nil
}

func loadUserConfig() *config.Config {
	manager, err := config.NewManager()
	if err != nil {
		return &config.Config{ReadToolsEnabled: true}
	}
	cfg, err := manager.Load()
	if err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
		return &config.Config{ReadToolsEnabled: true}
	}
	return cfg
}

func listRuns(dir string) error {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	store, err := runStore()
	if err != nil {
		return err
	}
	runs, err := store.List(dir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded for this repository.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-14s  %3d iterations  %3d files  %s\n",
			r.ID, r.Status, r.Iterations, r.FilesImplemented, r.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func saveRunRecord(repoRoot, planPath, model string, started time.Time, report engine.Report) error {
	store, err := runStore()
	if err != nil {
		return err
	}
	return store.Save(&session.RunRecord{
		ID:               report.RunID,
		RepoPath:         repoRoot,
		PlanPath:         planPath,
		Model:            model,
		Status:           string(report.Status),
		Iterations:       report.Iterations,
		FilesImplemented: len(report.FilesImplemented),
		StartedAt:        started,
		UpdatedAt:        time.Now(),
		Report:           report.Render(),
	})
}

func runStore() (*session.Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return session.NewStore(home + "/.planforge"), nil
}

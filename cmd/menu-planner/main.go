package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/app"
	"canteen-menu-planner/internal/config"
	"canteen-menu-planner/internal/database"
	"canteen-menu-planner/internal/history"
	"canteen-menu-planner/internal/importer"
	"canteen-menu-planner/internal/llm"
	"canteen-menu-planner/internal/menu"
	"canteen-menu-planner/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	textGen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text generator")
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	profiles := account.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	generator := menu.NewGenerator(textGen, log)
	menuImporter := importer.NewImporter(profiles, textGen)

	application := app.NewApp(profiles, historyRepo, metricsStore, generator, cfg, log)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init-profile":
		runInitProfile(ctx, profiles, os.Args[2:], log)
	case "import-menu":
		runImportMenu(ctx, menuImporter, os.Args[2:], log)
	case "generate":
		runGenerate(ctx, application, os.Args[2:], log)
	case "history":
		runHistory(ctx, application, os.Args[2:], log)
	case "metrics-cleanup":
		runMetricsCleanup(ctx, metricsStore, os.Args[2:], log)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInitProfile(ctx context.Context, profiles *account.Repository, args []string, log zerolog.Logger) {
	fs := flag.NewFlagSet("init-profile", flag.ExitOnError)
	accountID := fs.String("account", "default", "Account identifier")
	hot := fs.Int("hot", 8, "Hot dishes per day")
	cold := fs.Int("cold", 3, "Cold dishes per day")
	poolsPath := fs.String("pools", "", "Optional JSON file with 4 historical dish pools")
	fs.Parse(args)

	pools := make([][]string, account.PoolCount)
	for i := range pools {
		pools[i] = []string{}
	}
	if *poolsPath != "" {
		data, err := os.ReadFile(*poolsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read pools file")
		}
		if err := json.Unmarshal(data, &pools); err != nil {
			log.Fatal().Err(err).Msg("failed to parse pools file")
		}
	}

	profile := &account.Profile{
		AccountID:     *accountID,
		HotDishCount:  *hot,
		ColdDishCount: *cold,
		Pools:         pools,
	}
	if err := profiles.Save(ctx, profile); err != nil {
		log.Fatal().Err(err).Msg("failed to save profile")
	}
	fmt.Printf("Profile saved for account %q: %d hot + %d cold dishes per day.\n", *accountID, *hot, *cold)
}

func runImportMenu(ctx context.Context, menuImporter *importer.Importer, args []string, log zerolog.Logger) {
	fs := flag.NewFlagSet("import-menu", flag.ExitOnError)
	accountID := fs.String("account", "default", "Account identifier")
	slot := fs.Int("slot", 1, "Historical pool slot (1-4)")
	url := fs.String("url", "", "Menu page URL to import")
	fs.Parse(args)

	if *url == "" {
		log.Fatal().Msg("-url is required")
	}

	dishes, err := menuImporter.ImportMenuPage(ctx, *accountID, *slot-1, *url)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	fmt.Printf("Imported %d dishes into pool %d:\n", len(dishes), *slot)
	for _, dish := range dishes {
		fmt.Printf("- %s\n", dish)
	}
}

func runGenerate(ctx context.Context, application *app.App, args []string, log zerolog.Logger) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	accountID := fs.String("account", "default", "Account identifier")
	mainMeat := fs.Int("main", 4, "Main-meat dishes per day")
	halfMeat := fs.Int("half", 2, "Half-meat dishes per day")
	veg := fs.Int("veg", 2, "Vegetarian dishes per day")
	staff := fs.String("staff", string(menu.StaffAbundant), "Staffing: scarce or abundant")
	ratio := fs.Int("ratio", 30, "Historical dish percentage (0-100)")
	equipment := fs.String("equipment", "", "Comma-separated equipment shortages (steamer,oven,wok,stewpot,grill)")
	spicy := fs.String("spicy", string(menu.SpicyMild), "Spice level: none, mild or medium")
	flavorDiversity := fs.Bool("flavor-diversity", true, "Require varied flavor profiles across days")
	workRatio := fs.String("work-ratio", menu.NoRequirement, "Prep-work preference")
	ingredientDiversity := fs.String("ingredient-diversity", menu.NoRequirement, "Ingredient spread preference")
	fs.Parse(args)

	var shortage []menu.Equipment
	if *equipment != "" {
		for _, part := range strings.Split(*equipment, ",") {
			shortage = append(shortage, menu.Equipment(strings.TrimSpace(part)))
		}
	}

	req := menu.GenerationRequest{
		MainMeatCount:       *mainMeat,
		HalfMeatCount:       *halfMeat,
		VegetarianCount:     *veg,
		StaffSituation:      menu.StaffSituation(*staff),
		HistoricalRatioPct:  *ratio,
		EquipmentShortage:   shortage,
		SpicyLevel:          menu.SpicyLevel(*spicy),
		FlavorDiversity:     *flavorDiversity,
		WorkRatio:           *workRatio,
		IngredientDiversity: *ingredientDiversity,
	}

	rec, err := application.GenerateWeekMenu(ctx, *accountID, req)
	if err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}

	fmt.Println("\n=== NEXT WEEK'S LUNCH MENU ===")
	for i, day := range rec.Menu.Days() {
		fmt.Printf("\n%s\n", weekdayNames[i])
		for _, dish := range day {
			fmt.Printf("  - %s\n", dish)
		}
	}
	fmt.Printf("\nSaved as record %s.\n", rec.ID)
}

func runHistory(ctx context.Context, application *app.App, args []string, log zerolog.Logger) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	accountID := fs.String("account", "default", "Account identifier")
	fs.Parse(args)

	records, err := application.History(ctx, *accountID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list history")
	}
	if len(records) == 0 {
		fmt.Println("No menus generated yet.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  %d dishes (%d%% classics)\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.ID, rec.Menu.DishCount(), rec.Request.HistoricalRatioPct)
	}
}

func runMetricsCleanup(ctx context.Context, store *metrics.Store, args []string, log zerolog.Logger) {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	affected, err := store.Cleanup(ctx, *days)
	if err != nil {
		log.Fatal().Err(err).Msg("cleanup failed")
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func printUsage() {
	fmt.Println("Usage: menu-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  init-profile       Create or update an account profile")
	fmt.Println("  import-menu        Import dish names from a menu page into a historical pool")
	fmt.Println("  generate           Generate next week's five-day lunch menu")
	fmt.Println("  history            List the retained generation records")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

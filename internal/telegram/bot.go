package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"canteen-menu-planner/internal/app"
	"canteen-menu-planner/internal/config"
	"canteen-menu-planner/internal/importer"
	"canteen-menu-planner/internal/menu"
	"canteen-menu-planner/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Bot wraps the Telegram API around the menu generation service.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	menuImporter *importer.Importer
	metricsStore *metrics.Store
	cfg          *config.Config
	log          zerolog.Logger
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	application *app.App,
	menuImporter *importer.Importer,
	metricsStore *metrics.Store,
	log zerolog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info().Str("response", resp.Description).Msg("webhook set")

	return &Bot{
		api:          api,
		app:          application,
		menuImporter: menuImporter,
		metricsStore: metricsStore,
		cfg:          cfg,
		log:          log.With().Str("component", "telegram").Logger(),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn().Err(err).Msg("error parsing update")
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		b.log.Warn().Int64("user_id", update.Message.From.ID).Msg("unauthorized access attempt")
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "/generate":
		b.handleGenerate(msg, fields[1:])
	case "/import":
		b.handleImport(msg, fields[1:])
	case "/history":
		b.handleHistory(msg)
	case "/metrics":
		b.handleMetrics(msg)
	default:
		b.send(msg.Chat.ID, "Commands:\n/generate [classic %] — generate next week's menu\n/import <pool 1-4> <url> — import a reference menu page\n/history — recent menus\n/metrics — usage (admin)")
	}
}

func (b *Bot) handleGenerate(msg *tgbotapi.Message, args []string) {
	statusID := b.send(msg.Chat.ID, "🧑‍🍳 *Planning next week's menu...*")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	accountID := strconv.FormatInt(msg.From.ID, 10)

	ratio := 30
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 || v > 100 {
			b.edit(msg.Chat.ID, statusID, "Classic percentage must be a number between 0 and 100.")
			return
		}
		ratio = v
	}

	req, err := b.defaultRequest(ctx, accountID, ratio)
	if err != nil {
		b.edit(msg.Chat.ID, statusID, fmt.Sprintf("❌ %v", err))
		return
	}

	rec, err := b.app.GenerateWeekMenu(ctx, accountID, req)
	if err != nil {
		b.log.Error().Err(err).Str("account", accountID).Msg("generation failed")
		b.edit(msg.Chat.ID, statusID, "❌ Menu generation failed, please retry later.")
		return
	}

	b.edit(msg.Chat.ID, statusID, formatMenuMarkdown(&rec.Menu))
}

// defaultRequest builds a generation request from the account's profile with
// an even-ish hot dish split and mild defaults for the soft constraints.
func (b *Bot) defaultRequest(ctx context.Context, accountID string, ratio int) (menu.GenerationRequest, error) {
	profile, err := b.app.Profile(ctx, accountID)
	if err != nil {
		return menu.GenerationRequest{}, err
	}
	if profile == nil {
		return menu.GenerationRequest{}, fmt.Errorf("no profile configured; set one up with the CLI first")
	}

	veg := profile.HotDishCount / 3
	half := profile.HotDishCount / 3
	if veg < 1 {
		veg = 1
	}
	if half < 1 {
		half = 1
	}

	return menu.GenerationRequest{
		MainMeatCount:       profile.HotDishCount - half - veg,
		HalfMeatCount:       half,
		VegetarianCount:     veg,
		StaffSituation:      menu.StaffAbundant,
		HistoricalRatioPct:  ratio,
		SpicyLevel:          menu.SpicyMild,
		FlavorDiversity:     true,
		WorkRatio:           menu.NoRequirement,
		IngredientDiversity: menu.NoRequirement,
	}, nil
}

func (b *Bot) handleImport(msg *tgbotapi.Message, args []string) {
	if len(args) != 2 {
		b.send(msg.Chat.ID, "Usage: /import <pool 1-4> <url>")
		return
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot < 1 || slot > 4 {
		b.send(msg.Chat.ID, "Pool must be a number from 1 to 4.")
		return
	}
	url := args[1]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		b.send(msg.Chat.ID, "The second argument must be a URL.")
		return
	}

	statusID := b.send(msg.Chat.ID, "✂️ *Importing menu page...*")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accountID := strconv.FormatInt(msg.From.ID, 10)
	dishes, err := b.menuImporter.ImportMenuPage(ctx, accountID, slot-1, url)
	if err != nil {
		b.log.Error().Err(err).Str("url", url).Msg("import failed")
		b.edit(msg.Chat.ID, statusID, fmt.Sprintf("❌ Import failed: %v", err))
		return
	}

	b.edit(msg.Chat.ID, statusID, fmt.Sprintf("✅ Imported %d dishes into pool %d.", len(dishes), slot))
}

func (b *Bot) handleHistory(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accountID := strconv.FormatInt(msg.From.ID, 10)
	records, err := b.app.History(ctx, accountID)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Error fetching history.")
		return
	}
	if len(records) == 0 {
		b.send(msg.Chat.ID, "No menus generated yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Recent menus*\n\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("• %s — %d dishes (%d%% classics)\n",
			rec.CreatedAt.Format("2006-01-02"), rec.Menu.DishCount(), rec.Request.HistoricalRatioPct))
	}
	b.send(msg.Chat.ID, sb.String())
}

func (b *Bot) handleMetrics(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(msg.Chat.ID, "⛔ Admin only.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Generation usage (7 days)*\n\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens, %d runs (%d failed)\n",
			d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalRuns, d.FailedRuns))
	}
	b.send(msg.Chat.ID, sb.String())
}

func formatMenuMarkdown(m *menu.WeekMenu) string {
	var sb strings.Builder
	sb.WriteString("📅 *Next week's lunch menu*\n\n")
	for i, day := range m.Days() {
		sb.WriteString(fmt.Sprintf("*%s*\n", weekdayNames[i]))
		for _, dish := range day {
			sb.WriteString(fmt.Sprintf("• %s\n", dish))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// send posts a markdown message and returns its message ID for later edits.
func (b *Bot) send(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Warn().Err(err).Msg("failed to send message")
		return 0
	}
	return sent.MessageID
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		b.log.Warn().Err(err).Msg("failed to edit message")
	}
}

// Package bot is a thin conversational front end over the seating engine.
// The language model only extracts a structured intent from the guest's
// message; every decision is made by the same core operations the HTTP
// layer uses.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/huyng1801/restobot/internal/hours"
	"github.com/huyng1801/restobot/internal/models"
)

// Menu is the read surface the assistant needs for menu questions
type Menu interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
}

// TableFinder locates tables free for a party and time window
type TableFinder interface {
	FindAvailable(ctx context.Context, minCapacity int, start, end time.Time) ([]models.Table, error)
}

// Intent is the structured form the model extracts from a guest message
type Intent struct {
	Action    string `json:"action"` // book_table, check_availability, show_menu, other
	PartySize int    `json:"party_size,omitempty"`
	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Time      string `json:"time,omitempty"` // HH:MM
	Reply     string `json:"reply,omitempty"`
}

// Assistant answers guest messages about availability, booking, and the menu
type Assistant struct {
	model    llms.Model
	checker  TableFinder
	menu     Menu
	schedule *hours.Schedule
	now      func() time.Time
}

// NewAssistant creates an assistant backed by the given language model
func NewAssistant(model llms.Model, checker TableFinder, menu Menu, schedule *hours.Schedule) *Assistant {
	return &Assistant{
		model:    model,
		checker:  checker,
		menu:     menu,
		schedule: schedule,
		now:      time.Now,
	}
}

const intentPrompt = `You are the booking assistant of a restaurant. Extract the guest's intent
from their message and answer ONLY with a JSON object, no prose, using this shape:
{"action":"book_table|check_availability|show_menu|other","party_size":N,"date":"YYYY-MM-DD","time":"HH:MM","reply":"..."}
Use action "other" with a short helpful "reply" when the message is not about
tables or the menu. Today is %s.

Guest message: %s`

// HandleMessage answers a single guest message
func (a *Assistant) HandleMessage(ctx context.Context, message string) (string, error) {
	prompt := fmt.Sprintf(intentPrompt, a.now().Format("2006-01-02"), message)
	raw, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt)
	if err != nil {
		return "", fmt.Errorf("generating intent: %w", err)
	}

	intent, err := parseIntent(raw)
	if err != nil {
		return "Sorry, I did not catch that. Could you tell me the party size, date, and time?", nil
	}

	switch intent.Action {
	case "book_table", "check_availability":
		return a.answerAvailability(ctx, intent)
	case "show_menu":
		return a.answerMenu(ctx)
	default:
		if intent.Reply != "" {
			return intent.Reply, nil
		}
		return "I can help you book a table or show you the menu.", nil
	}
}

// answerAvailability looks up free tables for the requested slot
func (a *Assistant) answerAvailability(ctx context.Context, intent *Intent) (string, error) {
	if intent.PartySize <= 0 || intent.Date == "" || intent.Time == "" {
		return "To find you a table I need the party size, the date, and the time.", nil
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", intent.Date+" "+intent.Time, a.now().Location())
	if err != nil {
		return "I could not understand that date and time. Please use a format like 20/10 19:00.", nil
	}
	if err := a.schedule.ValidateReservationTime(start); err != nil {
		return fmt.Sprintf("That time does not work: %s.", err), nil
	}

	tables, err := a.checker.FindAvailable(ctx, intent.PartySize, start, time.Time{})
	if err != nil {
		return "", fmt.Errorf("finding available tables: %w", err)
	}
	if len(tables) == 0 {
		return fmt.Sprintf("Sorry, no tables for %d at %s. Would another time work?",
			intent.PartySize, start.Format("15:04 on Jan 2")), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "We have %d table(s) for %d at %s:\n", len(tables), intent.PartySize, start.Format("15:04 on Jan 2"))
	for _, t := range tables {
		fmt.Fprintf(&b, "- Table %s (%d seats, %s)\n", t.TableNumber, t.Capacity, t.Location)
	}
	b.WriteString("Shall I book the first one for you?")
	return b.String(), nil
}

// answerMenu lists the available menu items
func (a *Assistant) answerMenu(ctx context.Context) (string, error) {
	items, err := a.menu.ListMenuItems(ctx)
	if err != nil {
		return "", fmt.Errorf("listing menu: %w", err)
	}
	if len(items) == 0 {
		return "The menu is being updated right now, please check back shortly.", nil
	}

	var b strings.Builder
	b.WriteString("Here is our menu:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s) $%.2f\n", item.Name, item.Category, item.Price)
	}
	return b.String(), nil
}

// parseIntent decodes the model output, tolerating code fences around the JSON
func parseIntent(raw string) (*Intent, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var intent Intent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		return nil, fmt.Errorf("decoding intent: %w", err)
	}
	if intent.Action == "" {
		return nil, fmt.Errorf("intent has no action")
	}
	return &intent, nil
}

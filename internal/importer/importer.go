package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

// Importer fills an account's historical dish pools from reference menu pages
// on the web. The page text is cleaned down and an LLM pulls the dish names
// out of it.
type Importer struct {
	profiles *account.Repository
	textGen  llm.TextGenerator
}

// extractedMenu is the structure the extraction prompt asks for.
type extractedMenu struct {
	Dishes []string `json:"dishes"`
}

// NewImporter creates a new Importer instance.
func NewImporter(profiles *account.Repository, textGen llm.TextGenerator) *Importer {
	return &Importer{profiles: profiles, textGen: textGen}
}

// ImportMenuPage fetches the URL, extracts dish names with the LLM, and writes
// them into the given pool slot (0-3) of the account's profile. Returns the
// extracted dish names.
func (i *Importer) ImportMenuPage(ctx context.Context, accountID string, slot int, url string) ([]string, error) {
	content, err := i.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu page: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a menu digitization expert. The text below comes from a catering menu page.
Extract every dish name you find. Return the result strictly as a JSON object
with this structure:
{
  "dishes": ["dish name 1", "dish name 2", ...]
}
Dish names only: no prices, no section headings, no descriptions.

Page content:
%s
`, content)

	llmResponse, err := i.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("dish extraction failed: %w", err)
	}

	var extracted extractedMenu
	if err := json.Unmarshal([]byte(llmResponse.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w. Response: %s", err, llmResponse.Content)
	}
	if len(extracted.Dishes) == 0 {
		return nil, fmt.Errorf("no dishes found on page %s", url)
	}

	if err := i.profiles.UpdatePool(ctx, accountID, slot, extracted.Dishes); err != nil {
		return nil, fmt.Errorf("failed to update pool %d: %w", slot, err)
	}

	return extracted.Dishes, nil
}

func (i *Importer) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

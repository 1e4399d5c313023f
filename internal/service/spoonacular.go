package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldUnavailable marks an external recipe field the API did not supply.
// Callers render it instead of treating the record as broken.
const FieldUnavailable = "unavailable"

const defaultSpoonacularURL = "https://api.spoonacular.com"

// ExternalRecipeResult is the normalized shape of a recipe coming from the
// external API. It is never persisted directly; importing one creates a
// Recipe with Source set to external.
type ExternalRecipeResult struct {
	ExternalID   int64  `json:"external_id"`
	Title        string `json:"title"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	ImageURL     string `json:"image_url"`
}

// SpoonacularService wraps the Spoonacular recipe API. Every call is a
// single attempt with a client-level timeout; any transport, status, or
// decode failure surfaces as ErrExternalService.
type SpoonacularService struct {
	apiKey string
	apiURL string
	client *http.Client
	caser  cases.Caser
}

// NewSpoonacularService reads SPOONACULAR_API_KEY (or the file named by
// SPOONACULAR_API_KEY_FILE) and the optional SPOONACULAR_API_URL override
// used by tests.
func NewSpoonacularService() (*SpoonacularService, error) {
	apiKey := os.Getenv("SPOONACULAR_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("SPOONACULAR_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("SPOONACULAR_API_KEY or SPOONACULAR_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("SPOONACULAR_API_URL")
	if apiURL == "" {
		apiURL = defaultSpoonacularURL
	}

	return &SpoonacularService{
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
		caser:  cases.Title(language.English),
	}, nil
}

type spoonacularSearchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Image string `json:"image"`
	} `json:"results"`
	TotalResults int `json:"totalResults"`
}

type spoonacularInformationResponse struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Image               string `json:"image"`
	Instructions        string `json:"instructions"`
	ExtendedIngredients []struct {
		Original string `json:"original"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

// Search runs a complexSearch query and normalizes each hit. The search
// endpoint returns only id, title, and image; ingredients and instructions
// come back as the unavailable marker until the recipe is fetched in full.
func (s *SpoonacularService) Search(ctx context.Context, query string) ([]ExternalRecipeResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", "10")
	params.Set("apiKey", s.apiKey)

	var decoded spoonacularSearchResponse
	if err := s.get(ctx, "/recipes/complexSearch", params, &decoded); err != nil {
		return nil, err
	}

	results := make([]ExternalRecipeResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, ExternalRecipeResult{
			ExternalID:   r.ID,
			Title:        s.normalizeTitle(r.Title),
			Ingredients:  FieldUnavailable,
			Instructions: FieldUnavailable,
			ImageURL:     orUnavailable(r.Image),
		})
	}
	return results, nil
}

// GetRecipe fetches the full record for one external recipe, flattening the
// ingredient list to one line per entry and preferring the structured
// instruction steps over the free-text field.
func (s *SpoonacularService) GetRecipe(ctx context.Context, externalID int64) (*ExternalRecipeResult, error) {
	params := url.Values{}
	params.Set("includeNutrition", "false")
	params.Set("apiKey", s.apiKey)

	var decoded spoonacularInformationResponse
	path := fmt.Sprintf("/recipes/%d/information", externalID)
	if err := s.get(ctx, path, params, &decoded); err != nil {
		return nil, err
	}

	ingredients := make([]string, 0, len(decoded.ExtendedIngredients))
	for _, ing := range decoded.ExtendedIngredients {
		if line := strings.TrimSpace(ing.Original); line != "" {
			ingredients = append(ingredients, line)
		}
	}

	var steps []string
	for _, block := range decoded.AnalyzedInstructions {
		for _, step := range block.Steps {
			if text := strings.TrimSpace(step.Step); text != "" {
				steps = append(steps, fmt.Sprintf("%d. %s", step.Number, text))
			}
		}
	}
	instructions := strings.Join(steps, "\n")
	if instructions == "" {
		instructions = stripHTMLTags(decoded.Instructions)
	}

	return &ExternalRecipeResult{
		ExternalID:   decoded.ID,
		Title:        s.normalizeTitle(decoded.Title),
		Ingredients:  orUnavailable(strings.Join(ingredients, "\n")),
		Instructions: orUnavailable(instructions),
		ImageURL:     orUnavailable(decoded.Image),
	}, nil
}

func (s *SpoonacularService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := s.apiURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrExternalService, err)
	}
	return nil
}

// normalizeTitle title-cases titles the API sends in all lower case, which
// is how most Spoonacular records arrive.
func (s *SpoonacularService) normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return FieldUnavailable
	}
	if title == strings.ToLower(title) {
		return s.caser.String(title)
	}
	return title
}

func orUnavailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return FieldUnavailable
	}
	return value
}

// stripHTMLTags removes markup from the free-text instruction field, which
// the API returns with embedded list tags.
func stripHTMLTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

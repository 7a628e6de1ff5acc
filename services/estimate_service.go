package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"caltrack/utils"
)

// FoodCandidate is a (food, quantity) pair pulled out of free text, not yet
// priced with calories.
type FoodCandidate struct {
	Food     string `json:"food"`
	Quantity string `json:"quantity"`
}

const (
	SourceUSDA   = "usda"
	SourceOpenAI = "openai"
)

// CalorieEstimate is a priced candidate. Calories is nil when both lookup
// paths failed — "could not estimate" must stay distinguishable from an
// estimated zero. Source names the path that actually produced the number.
type CalorieEstimate struct {
	Food     string `json:"food"`
	Quantity string `json:"quantity"`
	Calories *int   `json:"calories"`
	Source   string `json:"source,omitempty"`
}

type EstimateService struct {
	llm ChatCompleter
	db  FoodSearcher
}

func NewEstimateService(llm ChatCompleter, db FoodSearcher) *EstimateService {
	return &EstimateService{llm: llm, db: db}
}

const extractPrompt = `Extract all the foods and portion sizes from this sentence and return them as JSON.
Input: "%s"
Output format:
[
  {
    "food": "food name",
    "quantity": "amount (e.g., 1 slice, 2 cups, handful)"
  }
]
Return only the JSON array, nothing else.`

// ExtractFoods asks the model to break rawText into structured candidates.
// The reply is untrusted and is parsed strictly as a JSON array; it is never
// evaluated. Any failure yields an empty slice, never an error — the caller
// cannot tell "nothing extracted" from "input contained no food".
func (s *EstimateService) ExtractFoods(ctx context.Context, rawText string) []FoodCandidate {
	reply, err := s.llm.Complete(ctx, []Message{
		{Role: RoleUser, Content: fmt.Sprintf(extractPrompt, rawText)},
	}, 0)
	if err != nil {
		utils.Log.Warnw("food extraction call failed", "error", err)
		return []FoodCandidate{}
	}

	candidates, err := parseCandidateArray(reply)
	if err != nil {
		utils.Log.Warnw("food extraction reply unparseable", "error", err, "reply", reply)
		return []FoodCandidate{}
	}
	return candidates
}

// parseCandidateArray accepts only well-formed JSON array syntax, tolerating
// a markdown code fence around it. Anything else is a parse failure.
func parseCandidateArray(reply string) ([]FoodCandidate, error) {
	text := stripCodeFence(reply)
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		return nil, fmt.Errorf("reply is not a JSON array")
	}

	var raw []FoodCandidate
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid candidate JSON: %w", err)
	}

	candidates := make([]FoodCandidate, 0, len(raw))
	for _, c := range raw {
		if strings.TrimSpace(c.Food) == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	// drop an optional language tag on the fence line
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Resolve prices one candidate through the fallback cascade: authoritative
// USDA lookup first, model estimate second, unavailable last. One attempt per
// step, no retries.
//
// The USDA value is per 100g of the matched food and is reported as-is, not
// scaled to the candidate's quantity.
func (s *EstimateService) Resolve(ctx context.Context, c FoodCandidate) CalorieEstimate {
	est := CalorieEstimate{Food: c.Food, Quantity: c.Quantity}

	match, err := s.db.SearchFood(ctx, c.Food)
	if err != nil {
		utils.Log.Warnw("nutrition db lookup failed", "food", c.Food, "error", err)
	}
	if match != nil {
		cal := int(math.Round(utils.NormalizeCalories(match.CaloriesPer100g)))
		est.Calories = &cal
		est.Source = SourceUSDA
		return est
	}

	reply, err := s.llm.Complete(ctx, []Message{
		{Role: RoleUser, Content: fmt.Sprintf("Roughly estimate the calories in %s of %s. Return just a number.", c.Quantity, c.Food)},
	}, 0)
	if err != nil {
		utils.Log.Warnw("calorie estimation call failed", "food", c.Food, "error", err)
		return est
	}

	token := numberPattern.FindString(reply)
	if token == "" {
		utils.Log.Warnw("no numeric token in calorie estimate", "food", c.Food, "reply", reply)
		return est
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return est
	}
	cal := int(math.Round(f))
	est.Calories = &cal
	est.Source = SourceOpenAI
	return est
}

// ResolveAll prices a batch. Candidates share no state, so they resolve
// concurrently; the i-th result always corresponds to the i-th candidate.
func (s *EstimateService) ResolveAll(ctx context.Context, candidates []FoodCandidate) []CalorieEstimate {
	results := make([]CalorieEstimate, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c FoodCandidate) {
			defer wg.Done()
			results[i] = s.Resolve(ctx, c)
		}(i, c)
	}
	wg.Wait()
	return results
}

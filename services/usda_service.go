package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// FoodMatch is the top-ranked hit from the nutrition database. Calories is
// the energy value per 100g of the matched food, not scaled to any portion.
type FoodMatch struct {
	Description     string  `json:"description"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	FDCID           int     `json:"fdc_id"`
}

// FoodSearcher is the nutrition-database lookup used by the resolver.
// A (nil, nil) return means no usable match, which is a normal outcome.
type FoodSearcher interface {
	SearchFood(ctx context.Context, name string) (*FoodMatch, error)
}

type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewUSDAService initializes the USDAService with credentials and HTTP client
func NewUSDAService() *USDAService {
	base := os.Getenv("USDA_BASE_URL")
	if base == "" {
		base = "https://api.nal.usda.gov/fdc/v1"
	}
	return &USDAService{
		apiKey:  os.Getenv("USDA_API_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type foodSearchResponse struct {
	Foods []struct {
		FDCID       int    `json:"fdcId"`
		Description string `json:"description"`
	} `json:"foods"`
}

type foodDetailResponse struct {
	FoodNutrients []struct {
		NutrientName string   `json:"nutrientName"`
		Value        *float64 `json:"value"`
	} `json:"foodNutrients"`
}

// SearchFood queries the FoodData Central search endpoint by free-text name
// and takes the first hit only, then fetches its detail record to pull the
// Energy nutrient. No match, or a match without an energy value, returns
// (nil, nil).
func (s *USDAService) SearchFood(ctx context.Context, name string) (*FoodMatch, error) {
	q := url.Values{}
	q.Set("api_key", s.apiKey)
	q.Set("query", name)
	q.Set("pageSize", "1")
	q.Add("dataType", "Foundation")
	q.Add("dataType", "SR Legacy")

	sr, err := s.getJSON(ctx, s.baseURL+"/foods/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var search foodSearchResponse
	if err := json.Unmarshal(sr, &search); err != nil {
		return nil, fmt.Errorf("failed to parse USDA search JSON: %w", err)
	}
	if len(search.Foods) == 0 {
		return nil, nil
	}
	top := search.Foods[0]

	dr, err := s.getJSON(ctx, s.baseURL+"/food/"+strconv.Itoa(top.FDCID)+"?api_key="+url.QueryEscape(s.apiKey))
	if err != nil {
		return nil, err
	}

	var detail foodDetailResponse
	if err := json.Unmarshal(dr, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse USDA detail JSON: %w", err)
	}
	for _, n := range detail.FoodNutrients {
		if n.NutrientName == "Energy" && n.Value != nil {
			return &FoodMatch{
				Description:     top.Description,
				CaloriesPer100g: *n.Value,
				FDCID:           top.FDCID,
			}, nil
		}
	}
	return nil, nil
}

func (s *USDAService) getJSON(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create USDA request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call USDA API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read USDA response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("USDA API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

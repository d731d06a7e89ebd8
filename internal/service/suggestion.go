package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

type Strategy string

const (
	StrategyRotation           Strategy = "rotation"
	StrategyFavorites          Strategy = "favorites"
	StrategyNeverTried         Strategy = "never_tried"
	StrategyAvailableInventory Strategy = "available_inventory"
	StrategySeasonal           Strategy = "seasonal"
	StrategyQuickMeals         Strategy = "quick_meals"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
	quickMealMinutes       = 30
	maxMissingReported     = 3
)

var Strategies = []Strategy{
	StrategyRotation,
	StrategyFavorites,
	StrategyNeverTried,
	StrategyAvailableInventory,
	StrategySeasonal,
	StrategyQuickMeals,
}

func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

var seasonTags = map[string][]string{
	"spring": {"spring"},
	"summer": {"summer", "grilling", "bbq"},
	"fall":   {"fall", "autumn"},
	"winter": {"winter", "holiday"},
}

// SeasonFor maps a date to its northern-hemisphere meteorological season.
func SeasonFor(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "fall"
	default:
		return "winter"
	}
}

// SuggestionMetrics holds whatever the strategy measured. Fields a strategy doesn't use are
// omitted.
type SuggestionMetrics struct {
	DaysSinceCooked    *int     `json:"days_since_cooked,omitempty"`
	MatchPercent       *float64 `json:"match_percent,omitempty"`
	MatchedIngredients *int     `json:"matched_ingredients,omitempty"`
	TotalIngredients   *int     `json:"total_ingredients,omitempty"`
	MissingIngredients []string `json:"missing_ingredients,omitempty"`
	ThumbsUpRatio      *float64 `json:"thumbs_up_ratio,omitempty"`
	AverageRating      *float64 `json:"average_rating,omitempty"`
	RatingCount        *int64   `json:"rating_count,omitempty"`
	TotalTimeMinutes   *int     `json:"total_time_minutes,omitempty"`
	Season             string   `json:"season,omitempty"`
}

type Suggestion struct {
	RecipeID       uuid.UUID         `json:"recipe_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     models.Difficulty `json:"difficulty,omitempty"`
	Tags           []string          `json:"tags"`
	TimesCooked    int               `json:"times_cooked"`
	LastCookedDate *time.Time        `json:"last_cooked_date"`
	Strategy       Strategy          `json:"strategy"`
	Reason         string            `json:"reason"`
	Metrics        SuggestionMetrics `json:"metrics"`

	rank      []float64
	sortTitle string
}

// SuggestionService ranks active recipes. It only reads.
type SuggestionService struct {
	store    repository.Store
	ratings  *RatingService
	settings SettingsProvider
	log      *logger.Logger
	now      func() time.Time
}

var _ ISuggestionService = (*SuggestionService)(nil)

func NewSuggestionService(store repository.Store, ratings *RatingService, settings SettingsProvider, baseLog *logger.Logger) *SuggestionService {
	return &SuggestionService{
		store:    store,
		ratings:  ratings,
		settings: settings,
		log:      baseLog.With("service", "SuggestionService"),
		now:      time.Now,
	}
}

type suggestionInputs struct {
	recipes   []models.Recipe
	inventory []models.InventoryItem
	settings  models.AppSettings
	summaries map[uuid.UUID]RatingSummary
}

// Suggest returns at most limit recipes for strategy, best first. Equal scores fall back to
// recipe ID so the same data always yields the same order.
func (s *SuggestionService) Suggest(ctx context.Context, strategy Strategy, limit int) ([]Suggestion, error) {
	if !strategy.Valid() {
		names := make([]string, len(Strategies))
		for i, known := range Strategies {
			names[i] = string(known)
		}
		return nil, invalid("strategy", "must be one of: "+strings.Join(names, ", "))
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	in, err := s.load(ctx, strategy)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	var out []Suggestion
	switch strategy {
	case StrategyRotation:
		out = s.rotation(in, today)
	case StrategyFavorites:
		out = s.favorites(in)
	case StrategyNeverTried:
		out = s.neverTried(in)
	case StrategyAvailableInventory:
		out = s.availableInventory(in)
	case StrategySeasonal:
		out = s.seasonal(in, SeasonFor(today))
	case StrategyQuickMeals:
		out = s.quickMeals(in)
	}

	rankSuggestions(out)
	if out == nil {
		out = []Suggestion{}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	s.log.Debug("suggestions ranked", "strategy", strategy, "candidates", len(in.recipes), "returned", len(out))
	return out, nil
}

// load reads recipes, inventory and settings concurrently; rating summaries follow once the
// recipe IDs are known.
func (s *SuggestionService) load(ctx context.Context, strategy Strategy) (*suggestionInputs, error) {
	in := &suggestionInputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recipes, _, err := s.store.Recipes().List(gctx, repository.RecipeFilter{})
		if err != nil {
			return fmt.Errorf("failed to load recipes: %w", err)
		}
		in.recipes = recipes
		return nil
	})
	if strategy == StrategyAvailableInventory {
		g.Go(func() error {
			items, err := s.store.InventoryItems().List(gctx, repository.InventoryFilter{})
			if err != nil {
				return fmt.Errorf("failed to load inventory: %w", err)
			}
			in.inventory = items
			return nil
		})
	}
	g.Go(func() error {
		settings, err := s.settings.Current(gctx)
		if err != nil {
			return err
		}
		in.settings = settings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(in.recipes))
	for i, r := range in.recipes {
		ids[i] = r.ID
	}
	summaries, err := s.ratings.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	in.summaries = summaries
	return in, nil
}

func (s *SuggestionService) rotation(in *suggestionInputs, today time.Time) []Suggestion {
	var out []Suggestion
	for _, r := range in.recipes {
		sg := s.newSuggestion(r, StrategyRotation, in)
		if r.LastCookedDate == nil {
			sg.Reason = "Never tried before"
			// Never-cooked recipes rank ahead of any dated one.
			sg.rank = []float64{0, 0}
			out = append(out, sg)
			continue
		}
		days := daysBetween(dateOnly(*r.LastCookedDate), today)
		if days < in.settings.RotationPeriodDays {
			continue
		}
		sg.Reason = fmt.Sprintf("Not cooked in %d days", days)
		sg.Metrics.DaysSinceCooked = &days
		sg.rank = []float64{1, float64(r.LastCookedDate.Unix())}
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) favorites(in *suggestionInputs) []Suggestion {
	var out []Suggestion
	for _, r := range in.recipes {
		summary := in.summaries[r.ID]
		if !summary.IsFavorite || summary.ThumbsUpRatio == nil {
			continue
		}
		sg := s.newSuggestion(r, StrategyFavorites, in)
		sg.Reason = fmt.Sprintf("Household favorite (%d of %d thumbs up)", summary.ThumbsUpCount, summary.TotalRatings)
		sg.rank = []float64{-*summary.ThumbsUpRatio, -float64(summary.TotalRatings)}
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) neverTried(in *suggestionInputs) []Suggestion {
	var out []Suggestion
	for _, r := range in.recipes {
		if r.TimesCooked != 0 {
			continue
		}
		sg := s.newSuggestion(r, StrategyNeverTried, in)
		sg.Reason = "Never tried - give it a try!"
		sg.rank = []float64{-float64(r.CreatedAt.UnixMicro())}
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) availableInventory(in *suggestionInputs) []Suggestion {
	inStock := make(map[string]bool, len(in.inventory))
	for _, item := range in.inventory {
		if item.Quantity.IsPositive() {
			inStock[models.NormalizeName(item.Name)] = true
		}
	}

	var out []Suggestion
	for _, r := range in.recipes {
		total, matched := 0, 0
		var missing []string
		for _, ing := range r.Ingredients {
			if ing.Optional {
				continue
			}
			total++
			if inStock[models.NormalizeName(ing.Name)] {
				matched++
			} else {
				missing = append(missing, ing.Name)
			}
		}
		if matched == 0 {
			continue
		}
		percent := math.Round(float64(matched)/float64(total)*1000) / 10
		if len(missing) > maxMissingReported {
			missing = missing[:maxMissingReported]
		}

		sg := s.newSuggestion(r, StrategyAvailableInventory, in)
		sg.Reason = fmt.Sprintf("%.0f%% ingredients available", percent)
		sg.Metrics.MatchPercent = &percent
		sg.Metrics.MatchedIngredients = &matched
		sg.Metrics.TotalIngredients = &total
		sg.Metrics.MissingIngredients = missing
		sg.rank = []float64{-percent}
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) seasonal(in *suggestionInputs, season string) []Suggestion {
	wanted := seasonTags[season]
	var out []Suggestion
	for _, r := range in.recipes {
		if !hasAnyTag(r.Tags, wanted) {
			continue
		}
		sg := s.newSuggestion(r, StrategySeasonal, in)
		sg.Reason = fmt.Sprintf("Perfect for %s!", season)
		sg.Metrics.Season = season
		sg.sortTitle = strings.ToLower(r.Title)
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) quickMeals(in *suggestionInputs) []Suggestion {
	var out []Suggestion
	for _, r := range in.recipes {
		if r.PrepTimeMinutes == nil && r.CookTimeMinutes == nil {
			continue
		}
		total := r.TotalTimeMinutes()
		if total >= quickMealMinutes {
			continue
		}
		sg := s.newSuggestion(r, StrategyQuickMeals, in)
		sg.Reason = fmt.Sprintf("Ready in %d minutes", total)
		sg.Metrics.TotalTimeMinutes = &total
		sg.rank = []float64{float64(total)}
		out = append(out, sg)
	}
	return out
}

func (s *SuggestionService) newSuggestion(r models.Recipe, strategy Strategy, in *suggestionInputs) Suggestion {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	sg := Suggestion{
		RecipeID:       r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Difficulty:     r.Difficulty,
		Tags:           tags,
		TimesCooked:    r.TimesCooked,
		LastCookedDate: r.LastCookedDate,
		Strategy:       strategy,
	}
	if summary, ok := in.summaries[r.ID]; ok && summary.ThumbsUpRatio != nil {
		ratio := *summary.ThumbsUpRatio
		stars := math.Round(ratio*50) / 10
		count := summary.TotalRatings
		sg.Metrics.ThumbsUpRatio = &ratio
		sg.Metrics.AverageRating = &stars
		sg.Metrics.RatingCount = &count
	}
	return sg
}

// rankSuggestions orders by rank tuple, then title where one was set, then recipe ID.
func rankSuggestions(out []Suggestion) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].rank, out[j].rank
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		if out[i].sortTitle != out[j].sortTitle {
			return out[i].sortTitle < out[j].sortTitle
		}
		return out[i].RecipeID.String() < out[j].RecipeID.String()
	})
}

func hasAnyTag(tags []string, wanted []string) bool {
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

const (
	statisticsTopN   = 10
	statisticsMonths = 12
)

type StatisticsTotals struct {
	Recipes        int64 `json:"recipes"`
	MenuPlans      int64 `json:"menu_plans"`
	InventoryItems int64 `json:"inventory_items"`
	Ratings        int64 `json:"ratings"`
	Raters         int64 `json:"raters"`
	LowStockItems  int64 `json:"low_stock_items"`
}

type CookedRecipe struct {
	RecipeID    uuid.UUID `json:"recipe_id"`
	Title       string    `json:"title"`
	TimesCooked int       `json:"times_cooked"`
}

type FavoredRecipe struct {
	RecipeID      uuid.UUID `json:"recipe_id"`
	Title         string    `json:"title"`
	ThumbsUpRatio float64   `json:"thumbs_up_ratio"`
	RatingCount   int64     `json:"rating_count"`
	IsFavorite    bool      `json:"is_favorite"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Statistics is the admin dashboard snapshot.
type Statistics struct {
	Totals                 StatisticsTotals            `json:"totals"`
	MostCookedRecipes      []CookedRecipe              `json:"most_cooked_recipes"`
	MostFavoredRecipes     []FavoredRecipe             `json:"most_favorited_recipes"`
	DifficultyDistribution map[models.Difficulty]int64 `json:"difficulty_distribution"`
	RecipesOverTime        []MonthlyCount              `json:"recipes_over_time"`
	GeneratedAt            time.Time                   `json:"generated_at"`
}

type StatisticsService struct {
	store     repository.Store
	inventory *InventoryService
	ratings   *RatingService
	log       *logger.Logger
	now       func() time.Time
}

var _ IStatisticsService = (*StatisticsService)(nil)

func NewStatisticsService(store repository.Store, inventory *InventoryService, ratings *RatingService, baseLog *logger.Logger) *StatisticsService {
	return &StatisticsService{
		store:     store,
		inventory: inventory,
		ratings:   ratings,
		log:       baseLog.With("service", "StatisticsService"),
		now:       time.Now,
	}
}

// Snapshot gathers every dashboard figure concurrently. Deleted recipes are left out.
func (s *StatisticsService) Snapshot(ctx context.Context) (*Statistics, error) {
	now := s.now()
	out := &Statistics{GeneratedAt: now}

	var totals repository.Totals
	var lowStock []models.InventoryItem
	var created []time.Time

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if totals, err = s.store.Statistics().Totals(gctx); err != nil {
			return fmt.Errorf("failed to count totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lowStock, err = s.inventory.LowStock(gctx)
		return err
	})
	g.Go(func() error {
		recipes, err := s.store.Statistics().MostCooked(gctx, statisticsTopN)
		if err != nil {
			return fmt.Errorf("failed to load most cooked recipes: %w", err)
		}
		out.MostCookedRecipes = make([]CookedRecipe, 0, len(recipes))
		for _, r := range recipes {
			out.MostCookedRecipes = append(out.MostCookedRecipes, CookedRecipe{RecipeID: r.ID, Title: r.Title, TimesCooked: r.TimesCooked})
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.MostFavoredRecipes, err = s.mostFavored(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if out.DifficultyDistribution, err = s.store.Statistics().DifficultyCounts(gctx); err != nil {
			return fmt.Errorf("failed to count difficulties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if created, err = s.store.Statistics().RecipeCreationTimes(gctx); err != nil {
			return fmt.Errorf("failed to load recipe creation times: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Totals = StatisticsTotals{
		Recipes:        totals.Recipes,
		MenuPlans:      totals.MenuPlans,
		InventoryItems: totals.InventoryItems,
		Ratings:        totals.Ratings,
		Raters:         totals.Raters,
		LowStockItems:  int64(len(lowStock)),
	}
	out.RecipesOverTime = monthlyCounts(created, now, statisticsMonths)
	return out, nil
}

// mostFavored ranks rated recipes by thumbs-up ratio, then by how many people rated them.
func (s *StatisticsService) mostFavored(ctx context.Context) ([]FavoredRecipe, error) {
	counts, err := s.store.Ratings().CountsByRecipe(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []FavoredRecipe{}, nil
	}
	recipes, err := s.store.Recipes().GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	summaries, err := s.ratings.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]FavoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		summary := summaries[r.ID]
		if r.IsDeleted || summary.ThumbsUpRatio == nil {
			continue
		}
		out = append(out, FavoredRecipe{
			RecipeID:      r.ID,
			Title:         r.Title,
			ThumbsUpRatio: *summary.ThumbsUpRatio,
			RatingCount:   summary.TotalRatings,
			IsFavorite:    summary.IsFavorite,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ThumbsUpRatio != b.ThumbsUpRatio {
			return a.ThumbsUpRatio > b.ThumbsUpRatio
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.RecipeID.String() < b.RecipeID.String()
	})
	if len(out) > statisticsTopN {
		out = out[:statisticsTopN]
	}
	return out, nil
}

// monthlyCounts buckets times into the months calendar months ending with now's month, oldest
// first. Months without any entry are reported as zero.
func monthlyCounts(times []time.Time, now time.Time, months int) []MonthlyCount {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	out := make([]MonthlyCount, months)
	index := make(map[string]int, months)
	for i := range out {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthlyCount{Month: key}
		index[key] = i
	}
	for _, t := range times {
		if i, ok := index[t.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

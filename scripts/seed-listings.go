package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

type sample struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Category    model.Category
	Coordinates [2]float64
}

var samples = []sample{
	{
		Title:       "Cozy Beachfront Cottage",
		Description: "Escape to this charming beachfront cottage for a relaxing getaway.",
		Price:       1500,
		Location:    "Malibu",
		Country:     "United States",
		Category:    model.CategoryBeach,
		Coordinates: [2]float64{-118.7798, 34.0259},
	},
	{
		Title:       "Modern Loft in Downtown",
		Description: "Stay in the heart of the city in this stylish loft apartment.",
		Price:       1200,
		Location:    "New York City",
		Country:     "United States",
		Category:    model.CategoryIconicCities,
		Coordinates: [2]float64{-74.0060, 40.7128},
	},
	{
		Title:       "Mountain Retreat",
		Description: "Unplug and unwind in this peaceful mountain cabin.",
		Price:       1000,
		Location:    "Aspen",
		Country:     "United States",
		Category:    model.CategoryMountains,
		Coordinates: [2]float64{-106.8175, 39.1911},
	},
	{
		Title:       "Historic Castle in Scotland",
		Description: "Live like royalty in this historic castle in the Scottish Highlands.",
		Price:       4000,
		Location:    "Scottish Highlands",
		Country:     "United Kingdom",
		Category:    model.CategoryCastles,
		Coordinates: [2]float64{-4.2026, 57.1200},
	},
	{
		Title:       "Secluded Treehouse Getaway",
		Description: "Live among the treetops in this unique treehouse retreat.",
		Price:       800,
		Location:    "Portland",
		Country:     "United States",
		Category:    model.CategoryCamping,
		Coordinates: [2]float64{-122.6765, 45.5231},
	},
	{
		Title:       "Villa with Infinity Pool",
		Description: "Soak up the sun beside a private infinity pool overlooking the sea.",
		Price:       3500,
		Location:    "Santorini",
		Country:     "Greece",
		Category:    model.CategoryPools,
		Coordinates: [2]float64{25.4615, 36.3932},
	},
	{
		Title:       "Working Farmhouse Stay",
		Description: "Wake up to fresh eggs and open fields on a family farm.",
		Price:       600,
		Location:    "Tuscany",
		Country:     "Italy",
		Category:    model.CategoryFarms,
		Coordinates: [2]float64{11.2558, 43.7696},
	},
	{
		Title:       "Glass Igloo under the Aurora",
		Description: "Watch the northern lights from a heated glass igloo.",
		Price:       2500,
		Location:    "Lapland",
		Country:     "Finland",
		Category:    model.CategoryArctic,
		Coordinates: [2]float64{26.7200, 67.9222},
	},
	{
		Title:       "Private Room near the Old Town",
		Description: "A bright private room within walking distance of the old town.",
		Price:       150,
		Location:    "Prague",
		Country:     "Czech Republic",
		Category:    model.CategoryRooms,
		Coordinates: [2]float64{14.4378, 50.0755},
	},
	{
		Title:       "Rooftop Apartment with City Views",
		Description: "Enjoy sunsets over the skyline from a private rooftop terrace.",
		Price:       1800,
		Location:    "Lisbon",
		Country:     "Portugal",
		Category:    model.CategoryTrending,
		Coordinates: [2]float64{-9.1393, 38.7223},
	},
}

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	created, err := seed(ctx, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		repo.Close()
		os.Exit(1)
	}

	fmt.Printf("%d listings created\n", created)
}

// seed replaces all listings with the samples. Owners are assigned
// round-robin over existing users.
func seed(ctx context.Context, repo *repository.Repository) (int, error) {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("no users found; sign up at least one user before seeding")
	}

	listings, reviews, err := repo.ClearListings(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear listings: %w", err)
	}
	fmt.Printf("removed %d listings and %d reviews\n", listings, reviews)

	now := time.Now().UTC()
	for i, s := range samples {
		listing := &model.Listing{
			ID:          ulid.Make().String(),
			Title:       s.Title,
			Description: s.Description,
			Price:       s.Price,
			Location:    s.Location,
			Country:     s.Country,
			Category:    s.Category,
			Geometry:    model.Geometry{Type: "Point", Coordinates: s.Coordinates},
			Image:       model.DefaultImage(),
			OwnerID:     users[i%len(users)].ID,
			ReviewIDs:   []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.CreateListing(ctx, listing); err != nil {
			return i, fmt.Errorf("create listing %q: %w", s.Title, err)
		}
	}

	return len(samples), nil
}

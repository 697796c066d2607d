package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"hallbook/internal/bookings"
	"hallbook/internal/customers"
	"hallbook/internal/pricing"
	"hallbook/internal/resources"
	"hallbook/internal/shared/config"
	"hallbook/internal/shared/constants"
	"hallbook/internal/shared/database"
	"hallbook/internal/shared/utils/clock"
	"hallbook/internal/users"
	"hallbook/pkg/cache"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db        *database.DB
	users     users.Repository
	customers customers.Repository
	bookings  bookings.Repository
}

// seeded ids, keyed by the short names used below
type seeded struct {
	users     map[string]*users.User
	resources map[string]*resources.Resource
	rules     map[string]*pricing.Rule
}

func main() {
	fmt.Println("🌱 Starting hallbook database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db:        db,
		users:     users.NewRepository(db.PostgreSQL),
		customers: customers.NewRepository(db.PostgreSQL),
		bookings:  bookings.NewRepository(db.PostgreSQL),
	}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Owner logins use the password \"qwerty123\".")
}

// CleanDatabase truncates the application tables, dependants first.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"notifications",
		"bookings",
		"pricing",
		"resources",
		"customers",
		"users",
	}

	return s.db.PostgreSQL.Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll(ctx context.Context) error {
	data := &seeded{
		users:     map[string]*users.User{},
		resources: map[string]*resources.Resource{},
		rules:     map[string]*pricing.Rule{},
	}

	if err := s.SeedUsers(ctx, data); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedResources(data); err != nil {
		return fmt.Errorf("failed to seed resources: %w", err)
	}
	if err := s.SeedPricing(data); err != nil {
		return fmt.Errorf("failed to seed pricing: %w", err)
	}
	if err := s.SeedBookings(ctx, data); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// cached listings would still point at the truncated rows
	if s.db.Redis != nil {
		cacheService := cache.NewService(s.db.Redis)
		for _, pattern := range []string{
			constants.CACHE_KEY_RESOURCES_PUBLIC + "*",
			constants.CACHE_KEY_PRICING_PUBLIC + "*",
			constants.BuildUnavailableDatesPattern("*"),
		} {
			if err := cacheService.DeletePattern(ctx, pattern); err != nil {
				log.Printf("Warning: failed to clear cache keys %s: %v", pattern, err)
			}
		}
	}
	return nil
}

// SeedUsers creates an admin, two hall owners and one customer with profile.
func (s *Seeder) SeedUsers(ctx context.Context, data *seeded) error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key          string
		name         string
		businessName string
		email        string
		phone        string
		address      string
		role         users.Role
	}{
		{"admin", "Admin", "", "admin@hallbook.app", "", "", users.RoleAdmin},
		{"owner1", "Priya Nair", "Cranbourne Community Halls", "bookings@cranbournehalls.com.au", "0398765432", "12 Sladen St, Cranbourne VIC 3977", users.RoleHallOwner},
		{"owner2", "", "Riverside Function Centre", "events@riversidefc.com.au", "0387654321", "5 Wharf Rd, Southbank VIC 3006", users.RoleHallOwner},
		{"customer", "Jane Citizen", "", "jane.citizen@example.com", "0412345678", "", users.RoleCustomer},
	}

	for _, u := range usersData {
		user := &users.User{
			ID:           uuid.New(),
			Role:         u.role,
			Name:         u.name,
			BusinessName: u.businessName,
			Address:      u.address,
			Phone:        u.phone,
			Email:        u.email,
			Password:     string(hashedPassword),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		data.users[u.key] = user
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)

		if u.role != users.RoleCustomer {
			continue
		}
		profile := &customers.Customer{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Phone:  user.Phone,
			Source: customers.SourceWebsite,
		}
		if err := s.customers.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("failed to create customer profile %s: %w", u.email, err)
		}
		stored, err := s.customers.GetByID(ctx, user.ID.String())
		if err != nil {
			return fmt.Errorf("failed to read back customer profile %s: %w", u.email, err)
		}
		fmt.Printf("    ✅ Created customer profile: %s (source %s)\n", stored.Email, stored.Source)
	}

	return nil
}

// SeedResources creates the halls of both owners
func (s *Seeder) SeedResources(data *seeded) error {
	fmt.Println("  🏛  Seeding resources...")

	resourceData := []struct {
		key      string
		owner    string
		name     string
		code     string
		capacity int
		desc     string
	}{
		{"main", "owner1", "Main Hall", "MH", 200, "Sprung timber floor, stage and commercial kitchen"},
		{"meeting", "owner1", "Meeting Room", "MR", 30, "Boardroom layout with projector"},
		{"river", "owner2", "River Room", "RR", 120, "Waterfront views, dance floor"},
	}

	for _, r := range resourceData {
		resource := &resources.Resource{
			ID:          uuid.New(),
			HallOwnerID: data.users[r.owner].ID,
			Name:        r.name,
			Type:        resources.DefaultType,
			Capacity:    r.capacity,
			Code:        r.code,
			Description: r.desc,
		}
		if err := s.db.PostgreSQL.Create(resource).Error; err != nil {
			return fmt.Errorf("failed to create resource %s: %w", r.name, err)
		}
		data.resources[r.key] = resource
		fmt.Printf("    ✅ Created resource: %s (capacity %d)\n", resource.Name, resource.Capacity)
	}
	return nil
}

// SeedPricing creates one rate card per hall
func (s *Seeder) SeedPricing(data *seeded) error {
	fmt.Println("  💲 Seeding pricing...")

	ruleData := []struct {
		resource string
		rateType pricing.RateType
		weekday  float64
		weekend  float64
		desc     string
	}{
		{"main", pricing.RateTypeHourly, 100, 150, "Hourly hire, weekend loading applies"},
		{"meeting", pricing.RateTypeHourly, 40, 55, "Hourly hire"},
		{"river", pricing.RateTypeDaily, 800, 1200, "Full day from 8 hours, half day otherwise"},
	}

	for _, r := range ruleData {
		resource := data.resources[r.resource]
		rule := &pricing.Rule{
			ID:           uuid.New(),
			HallOwnerID:  resource.HallOwnerID,
			ResourceID:   resource.ID,
			ResourceName: resource.Name,
			RateType:     r.rateType,
			WeekdayRate:  r.weekday,
			WeekendRate:  r.weekend,
			Description:  r.desc,
		}
		if err := s.db.PostgreSQL.Create(rule).Error; err != nil {
			return fmt.Errorf("failed to create pricing for %s: %w", resource.Name, err)
		}
		data.rules[r.resource] = rule
		fmt.Printf("    ✅ Created pricing: %s %s %.2f/%.2f\n", resource.Name, rule.RateType, rule.WeekdayRate, rule.WeekendRate)
	}
	return nil
}

// SeedBookings creates a few bookings so the calendar and reminder job have
// something to show. Tomorrow's confirmed booking is picked up by the
// reminder job.
func (s *Seeder) SeedBookings(ctx context.Context, data *seeded) error {
	fmt.Println("  📅 Seeding bookings...")

	today := time.Now()
	guests := 80

	bookingData := []struct {
		resource  string
		daysAhead int
		start     string
		end       string
		eventType string
		status    bookings.Status
	}{
		{"main", 1, "18:00", "23:00", "Birthday Party", bookings.StatusConfirmed},
		{"main", 3, "09:00", "12:00", "Yoga Workshop", bookings.StatusPending},
		{"meeting", 3, "13:00", "15:00", "Committee Meeting", bookings.StatusPending},
		{"river", 10, "10:00", "20:00", "Wedding Reception", bookings.StatusConfirmed},
		{"main", 5, "10:00", "14:00", "Community Lunch", bookings.StatusCancelled},
	}

	customer := data.users["customer"]
	for _, b := range bookingData {
		resource := data.resources[b.resource]
		day := today.AddDate(0, 0, b.daysAhead)
		date := day.Format(clock.DateLayout)

		quote, err := pricing.Calculate(*data.rules[b.resource], day, b.start, b.end, nil)
		if err != nil {
			return fmt.Errorf("failed to price %s on %s: %w", resource.Name, date, err)
		}

		customerID := customer.ID
		booking := &bookings.Booking{
			ID:              uuid.New(),
			CustomerID:      &customerID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   customer.Phone,
			EventType:       b.eventType,
			SelectedHall:    resource.ID,
			HallName:        resource.Name,
			HallOwnerID:     resource.HallOwnerID,
			BookingDate:     date,
			StartTime:       b.start,
			EndTime:         b.end,
			GuestCount:      &guests,
			Status:          b.status,
			CalculatedPrice: quote.Price,
			PriceDetails:    quote.Details,
			BookingCode:     bookings.RandomCode(strings.ReplaceAll(date, "-", ""), rand.IntN),
			BookingSource:   bookings.DefaultBookingSource,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("failed to create booking %s: %w", booking.BookingCode, err)
		}
		fmt.Printf("    ✅ Created booking: %s %s %s-%s (%s, $%.2f)\n",
			booking.BookingCode, resource.Name, b.start, b.end, booking.Status, booking.CalculatedPrice)
	}
	return nil
}

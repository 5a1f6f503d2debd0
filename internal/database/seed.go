package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
)

// Catalog creates venues and events.
type Catalog interface {
	CreateVenue(ctx context.Context, v *model.Venue) error
	CreateEvent(ctx context.Context, e *model.Event) error
}

// UserWriter registers users with a hashed password.
type UserWriter interface {
	Create(ctx context.Context, username, email, password, status string, cost int) (uint64, error)
}

// Reserver books seats; the reservation engine satisfies it.
type Reserver interface {
	Reserve(ctx context.Context, eventID, userID uint64, seats []string) (*model.Reservation, error)
}

type demoUser struct{ username, email, password, status string }

type demoVenue struct {
	name, city    string
	rows, columns int
}

type demoEvent struct {
	venue int // index into demoVenues
	title string
	date  string
}

type demoReservation struct {
	event, user int // indexes into demoEvents and demoUsers
	seats       []string
}

var demoUsers = []demoUser{
	{"user1", "u1@polito.it", "password1", model.StatusLoyal},
	{"user2", "u2@polito.it", "password2", model.StatusNormal},
	{"user3", "u3@polito.it", "password3", model.StatusNormal},
	{"user4", "u4@polito.it", "password4", model.StatusLoyal},
	{"user5", "u5@polito.it", "password5", model.StatusNormal},
	{"user6", "u6@polito.it", "password6", model.StatusLoyal},
}

var demoVenues = []demoVenue{
	{"Wembley Stadium", "London", 9, 14},
	{"Unipol Arena", "Bologna", 4, 8},
	{"Ippodromo Snai", "Milan", 9, 14},
	{"Mediolanum Forum", "Milan", 6, 10},
	{"Inalpi Arena", "Turin", 4, 8},
	{"Stadio Olimpico", "Rome", 9, 14},
}

var demoEvents = []demoEvent{
	{0, "Oasis", "2025-07-26"},
	{2, "Green Day", "2025-06-16"},
	{3, "Machine Gun Kelly", "2026-06-14"},
	{4, "Salmo", "2026-07-04"},
	{1, "Blink 182", "2025-06-05"},
	{5, "Sum 41", "2026-05-06"},
}

var demoReservations = []demoReservation{
	{0, 0, []string{"1A", "2A", "3A"}},
	{0, 1, []string{"1B", "2B", "3B"}},
	{0, 2, []string{"1C", "2C", "3C"}},
	{0, 3, []string{"1D", "2D", "3D"}},
	{1, 1, []string{"1A", "2B", "3C"}},
	{1, 2, []string{"4D", "4E", "4F"}},
	{2, 0, []string{"3A", "3B", "3C"}},
	{2, 3, []string{"2D", "2E", "2F"}},
	{3, 1, []string{"2A", "3B", "4C"}},
	{4, 3, []string{"1D", "2C", "3D", "2E"}},
}

// Seed loads the demo data set: six users, six venues with one concert
// each and a handful of reservations booked through res.  A store that
// already holds the first demo user is left untouched.
func Seed(ctx context.Context, cat Catalog, users UserWriter, res Reserver, bcryptCost int) error {
	userIDs := make([]uint64, len(demoUsers))
	for i, u := range demoUsers {
		id, err := users.Create(ctx, u.username, u.email, u.password, u.status, bcryptCost)
		if errors.Is(err, repository.ErrEmailExists) && i == 0 {
			log.Printf("seed: %s already exists, skipping", u.email)
			return nil
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		userIDs[i] = id
	}

	venueIDs := make([]uint64, len(demoVenues))
	for i, d := range demoVenues {
		v := model.Venue{Name: d.name, City: d.city, Rows: d.rows, Columns: d.columns}
		if err := cat.CreateVenue(ctx, &v); err != nil {
			return fmt.Errorf("seed venue %s: %w", d.name, err)
		}
		venueIDs[i] = v.ID
	}

	eventIDs := make([]uint64, len(demoEvents))
	for i, d := range demoEvents {
		date, err := time.Parse("2006-01-02", d.date)
		if err != nil {
			return err
		}
		e := model.Event{VenueID: venueIDs[d.venue], Title: d.title, Date: date}
		if err := cat.CreateEvent(ctx, &e); err != nil {
			return fmt.Errorf("seed event %s: %w", d.title, err)
		}
		eventIDs[i] = e.ID
	}

	for _, d := range demoReservations {
		if _, err := res.Reserve(ctx, eventIDs[d.event], userIDs[d.user], d.seats); err != nil {
			return fmt.Errorf("seed reservation for %s: %w", demoEvents[d.event].title, err)
		}
	}
	log.Printf("seed: %d users, %d venues, %d events, %d reservations",
		len(demoUsers), len(demoVenues), len(demoEvents), len(demoReservations))
	return nil
}

// MySQLCatalog adapts the venue and event repositories to Catalog.
type MySQLCatalog struct {
	Venues *repository.VenueRepo
	Events *repository.EventRepo
}

func (c MySQLCatalog) CreateVenue(ctx context.Context, v *model.Venue) error {
	return c.Venues.Create(ctx, v)
}

func (c MySQLCatalog) CreateEvent(ctx context.Context, e *model.Event) error {
	return c.Events.Create(ctx, e)
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/orcadive/divelog/internal/client/models"
)

// List prints the visible entry set, newest first.
func (a *App) List(ctx context.Context) error {
	for _, e := range a.ctrl.Entries() {
		fmt.Printf("%s  %s %-20s depth %.1fm  %d catches  [%s]\n",
			e.ID, e.Date, e.Location, e.Depth, len(e.Catches), e.UserID)
	}
	return nil
}

// Show prints one entry in full.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	e, ok := a.ctrl.Store().Get(id)
	if !ok {
		log.Printf("no entry with id %q", id)
		return nil
	}

	fmt.Printf("%s %s at %s\n", e.Date, e.Time, e.Location)
	fmt.Printf("Depth: %.1fm  Duration: %.0fmin  Visibility: %.1fm  Rating: %d/5\n",
		e.Depth, e.Duration, e.Visibility, e.Rating)
	if e.Coordinates != nil {
		fmt.Printf("Position: %.5f, %.5f\n", e.Coordinates.Lat, e.Coordinates.Lng)
	}
	for _, c := range e.Catches {
		released := ""
		if c.Released {
			released = " (released)"
		}
		fmt.Printf("Catch: %dx %s via %s%s\n", c.Quantity, c.Species, c.Method, released)
	}
	for _, p := range e.Photos {
		url, err := a.photos.ResolveURL(ctx, p)
		if err != nil {
			log.Printf("error resolving photo %s: %v", p, err)
			continue
		}
		fmt.Printf("Photo: %s\n", url)
	}
	if e.Notes != "" {
		fmt.Println(e.Notes)
	}
	return nil
}

// Add collects the fields of a new dive interactively and dispatches it.
func (a *App) Add(ctx context.Context) error {
	e := &models.DiveEntry{}

	var err error
	if e.Date, err = getSimpleText(a.reader, "Date (YYYY-MM-DD)", os.Stdout); err != nil {
		return err
	}
	if e.Time, err = getSimpleText(a.reader, "Time (HH:MM)", os.Stdout); err != nil {
		return err
	}
	if e.Location, err = getSimpleText(a.reader, "Location", os.Stdout); err != nil {
		return err
	}
	if e.Depth, err = a.promptFloat("Max depth (m)"); err != nil {
		return err
	}
	if e.Duration, err = a.promptFloat("Duration (min)"); err != nil {
		return err
	}
	rating, err := getSimpleText(a.reader, "Rating (1-5, empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if rating != "" {
		if e.Rating, err = strconv.Atoi(rating); err != nil {
			log.Printf("error: %v", err)
			return err
		}
	}
	if e.Notes, err = GetMultiline(a.reader, "Notes (double Enter to finish):", os.Stdout); err != nil {
		return err
	}

	if err := a.ctrl.AddEntry(ctx, e); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Success!")
	return nil
}

// Delete removes an entry by id.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.ctrl.DeleteEntry(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// AddPhoto uploads a photo file and attaches its storage key to an entry.
func (a *App) AddPhoto(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", os.Stdout)
	if err != nil {
		return err
	}
	e, ok := a.ctrl.Store().Get(id)
	if !ok {
		log.Printf("no entry with id %q", id)
		return nil
	}

	path, err := getSimpleText(a.reader, "Path to photo file", os.Stdout)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	key, err := a.photos.Upload(ctx, data, "image/jpeg")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	e.Photos = append(e.Photos, key)
	if err := a.ctrl.UpdateEntry(ctx, e); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Success!")
	return nil
}

// Refresh forces a one-shot re-query of the current scope.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.ctrl.Refresh(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Refreshed, %d entries\n", a.ctrl.Store().Len())
	return nil
}

// Clear deletes every visible entry after an explicit confirmation.
func (a *App) Clear(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete ALL visible entries? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Aborted")
		return nil
	}
	if err := a.ctrl.ClearAll(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

func (a *App) promptFloat(prompt string) (float64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("error: %v", err)
		return 0, err
	}
	return v, nil
}

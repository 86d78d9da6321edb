package chronicle

import (
	"context"
	"testing"
	"time"

	"nexus-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupChronicleTest(t *testing.T) (*Service, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.ChronicleEntry{}, &models.ChroniclePlace{}, &models.WorkEntry{},
	))

	profile := &models.Profile{Fullname: "Chronicle User", Email: "chronicle@test.com"}
	require.NoError(t, db.Create(profile).Error)
	return &Service{DB: db}, db, profile.ProfileID
}

func TestCreateEntry(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID,
		Title:     "  Coffee with Sam ",
		Body:      "Talked about the new role.",
		EntryDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Tags:      datatypes.JSON([]byte(`["coffee","career"]`)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee with Sam", entry.Title)
	assert.NotEqual(t, uuid.Nil, entry.EntryID)
}

func TestCreateEntry_Validation(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	_, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID,
		EntryDate: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, "Entry title is required", err.Error())

	_, err = svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID,
		Title:     "No date",
	})
	require.Error(t, err)
	assert.Equal(t, "Entry date is required", err.Error())
}

func TestCreateEntry_PlaceOwnership(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	place, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
		ProfileID: profileID,
		Name:      "Cafe Central",
		City:      "Vienna",
	})
	require.NoError(t, err)

	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID,
		Title:     "Meeting",
		EntryDate: time.Now(),
		PlaceID:   &place.PlaceID,
	})
	require.NoError(t, err)
	require.NotNil(t, entry.PlaceID)
	assert.Equal(t, place.PlaceID, *entry.PlaceID)

	// Another profile's place is invisible.
	stranger := uuid.New()
	_, err = svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: stranger,
		Title:     "Meeting",
		EntryDate: time.Now(),
		PlaceID:   &place.PlaceID,
	})
	require.Error(t, err)
	assert.Equal(t, "Place not found", err.Error())
}

func TestListEntries_NewestFirst(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateEntry(context.Background(), CreateEntryInput{ProfileID: profileID, Title: "Older", EntryDate: older})
	require.NoError(t, err)
	_, err = svc.CreateEntry(context.Background(), CreateEntryInput{ProfileID: profileID, Title: "Newer", EntryDate: newer})
	require.NoError(t, err)

	entries, err := svc.ListEntries(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Newer", entries[0].Title)
	assert.Equal(t, "Older", entries[1].Title)
}

func TestUpdateEntry(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID, Title: "Draft", EntryDate: time.Now(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEntry(context.Background(), profileID, entry.EntryID, map[string]interface{}{
		"title":      "Final",
		"profile_id": uuid.New().String(), // not an allowed field
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, profileID, updated.ProfileID)
}

func TestUpdateEntry_NotOwned(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID, Title: "Mine", EntryDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateEntry(context.Background(), uuid.New(), entry.EntryID, map[string]interface{}{"title": "Stolen"})
	require.Error(t, err)
	assert.Equal(t, "Entry not found", err.Error())
}

func TestRemoveEntry(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		ProfileID: profileID, Title: "Removable", EntryDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveEntry(context.Background(), profileID, entry.EntryID))

	entries, err := svc.ListEntries(context.Background(), profileID)
	require.NoError(t, err)
	assert.Len(t, entries, 0)

	assert.Error(t, svc.RemoveEntry(context.Background(), profileID, entry.EntryID))
}

func TestCreateWorkEntry(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entry, err := svc.CreateWorkEntry(context.Background(), CreateWorkEntryInput{
		ProfileID:     profileID,
		Company:       "Acme",
		Title:         "Engineer",
		StartDate:     start,
		EndDate:       &end,
		ChronicleNote: "Grew the platform team.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grew the platform team.", entry.ChronicleNote)
}

func TestCreateWorkEntry_EndBeforeStart(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(-1, 0, 0)
	_, err := svc.CreateWorkEntry(context.Background(), CreateWorkEntryInput{
		ProfileID: profileID,
		Company:   "Acme",
		Title:     "Engineer",
		StartDate: start,
		EndDate:   &end,
	})
	require.Error(t, err)
	assert.Equal(t, "End date must not be before start date", err.Error())
}

func TestListWorkEntries_NewestFirst(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	_, err := svc.CreateWorkEntry(context.Background(), CreateWorkEntryInput{
		ProfileID: profileID, Company: "First Co", Title: "Junior",
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.CreateWorkEntry(context.Background(), CreateWorkEntryInput{
		ProfileID: profileID, Company: "Second Co", Title: "Senior",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	entries, err := svc.ListWorkEntries(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Second Co", entries[0].Company)
}

func TestUpdateWorkEntry_ChronicleNote(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)
	entry, err := svc.CreateWorkEntry(context.Background(), CreateWorkEntryInput{
		ProfileID: profileID, Company: "Acme", Title: "Engineer",
		StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateWorkEntry(context.Background(), profileID, entry.WorkEntryID, map[string]interface{}{
		"chronicle_note": "Shipped the v2 rewrite.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shipped the v2 rewrite.", updated.ChronicleNote)
}

func TestListPlaces(t *testing.T) {
	svc, _, profileID := setupChronicleTest(t)

	_, err := svc.CreatePlace(context.Background(), CreatePlaceInput{ProfileID: profileID, Name: "Zeta Bar"})
	require.NoError(t, err)
	_, err = svc.CreatePlace(context.Background(), CreatePlaceInput{ProfileID: profileID, Name: "Alpha Cafe"})
	require.NoError(t, err)

	places, err := svc.ListPlaces(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Alpha Cafe", places[0].Name)
}
